package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ordersrepo "github.com/NunoCastro30/TechFlow/internal/orders/repository"
	procurement "github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	procservice "github.com/NunoCastro30/TechFlow/internal/procurement/service"
	"github.com/NunoCastro30/TechFlow/internal/production/entity"
	"github.com/NunoCastro30/TechFlow/internal/production/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrInsufficientStock = errors.New("insufficient raw material stock")
)

// ProductionService schedules production orders and records finished
// batches. Recording a batch consumes raw materials per the product's bill
// of materials and feeds the stock monitor.
type ProductionService struct {
	orders   *repository.ProductionOrderRepository
	products *ordersrepo.ProductRepository
	stock    *procservice.StockService
	db       *gorm.DB
	logger   *zap.Logger
}

func NewProductionService(db *gorm.DB, orders *repository.ProductionOrderRepository, products *ordersrepo.ProductRepository, stock *procservice.StockService, logger *zap.Logger) *ProductionService {
	return &ProductionService{
		orders:   orders,
		products: products,
		stock:    stock,
		db:       db,
		logger:   logger,
	}
}

type CreateProductionOrderInput struct {
	ProductID     string  `json:"product_id" binding:"required"`
	ClientOrderID *string `json:"client_order_id"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
}

func (s *ProductionService) Create(ctx context.Context, in *CreateProductionOrderInput) (*entity.ProductionOrder, error) {
	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, ordersrepo.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	po := &entity.ProductionOrder{
		ID:            uuid.New().String()[:32],
		ProductID:     in.ProductID,
		ClientOrderID: in.ClientOrderID,
		Quantity:      in.Quantity,
		Status:        entity.ProductionStatusPending,
	}
	if err := s.orders.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *ProductionService) List(ctx context.Context, status string, page, pageSize int) ([]entity.ProductionOrder, int64, error) {
	return s.orders.FindAll(ctx, status, page, pageSize)
}

func (s *ProductionService) Get(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// Start moves a pending order into progress.
func (s *ProductionService) Start(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.ProductionStatusPending {
		return nil, fmt.Errorf("production order is %s: %w", po.Status, ErrInvalidState)
	}

	now := time.Now()
	po.Status = entity.ProductionStatusInProgress
	po.StartedAt = &now
	if err := s.orders.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Cancel aborts an order that has not completed.
func (s *ProductionService) Cancel(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.ProductionStatusCompleted || po.Status == entity.ProductionStatusCancelled {
		return nil, fmt.Errorf("production order is %s: %w", po.Status, ErrInvalidState)
	}

	po.Status = entity.ProductionStatusCancelled
	if err := s.orders.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

type RecordBatchInput struct {
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	RecordedBy string `json:"recorded_by"`
}

// RecordBatch registers finished units against an in-progress order. Raw
// material rows are locked and decremented inside one transaction; when the
// cumulative recorded quantity reaches the order target the order completes.
// Stock checks run after commit with the pre-consumption quantities so only
// genuine downward threshold crossings alert.
func (s *ProductionService) RecordBatch(ctx context.Context, orderID string, in *RecordBatchInput) (*entity.ProductionOrder, error) {
	type consumed struct {
		materialID string
		before     int
	}
	var consumptions []consumed

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po entity.ProductionOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&po).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}
		if po.Status != entity.ProductionStatusInProgress {
			return fmt.Errorf("production order is %s: %w", po.Status, ErrInvalidState)
		}

		product, err := s.products.FindByID(ctx, po.ProductID)
		if err != nil {
			return err
		}

		for _, bom := range product.Materials {
			var m procurement.RawMaterial
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", bom.RawMaterialID).
				First(&m).Error; err != nil {
				return err
			}

			need := bom.Quantity * in.Quantity
			if m.Quantity < need {
				return fmt.Errorf("material %s: need %d, have %d: %w", m.Name, need, m.Quantity, ErrInsufficientStock)
			}

			consumptions = append(consumptions, consumed{materialID: m.ID, before: m.Quantity})
			m.Quantity -= need
			if err := tx.Save(&m).Error; err != nil {
				return err
			}
		}

		record := &entity.ProductionRecord{
			ID:                uuid.New().String()[:32],
			ProductionOrderID: po.ID,
			Quantity:          in.Quantity,
			RecordedBy:        in.RecordedBy,
			RecordedAt:        time.Now(),
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		var recorded int64
		if err := tx.Model(&entity.ProductionRecord{}).
			Where("production_order_id = ?", po.ID).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&recorded).Error; err != nil {
			return err
		}
		if recorded >= int64(po.Quantity) {
			now := time.Now()
			po.Status = entity.ProductionStatusCompleted
			po.CompletedAt = &now
			if err := tx.Save(&po).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range consumptions {
		s.stock.CheckCriticalDelta(ctx, c.materialID, c.before)
	}

	return s.orders.FindByID(ctx, orderID)
}
