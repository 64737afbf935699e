package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NunoCastro30/TechFlow/internal/orders/entity"
	"github.com/NunoCastro30/TechFlow/internal/orders/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService struct {
	repos       *repository.Repositories
	feasibility *FeasibilityService
	logger      *zap.Logger
}

func NewOrderService(repos *repository.Repositories, feasibility *FeasibilityService, logger *zap.Logger) *OrderService {
	return &OrderService{repos: repos, feasibility: feasibility, logger: logger}
}

type OrderItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderInput struct {
	ClientID string           `json:"client_id" binding:"required"`
	Notes    string           `json:"notes"`
	Items    []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// Create places an order and immediately runs the stock feasibility check.
// The order is created either way; a shortage only flags it.
func (s *OrderService) Create(ctx context.Context, in *CreateOrderInput) (*entity.ClientOrder, error) {
	if _, err := s.repos.Client.FindByID(ctx, in.ClientID); err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		if _, err := s.repos.Product.FindByID(ctx, item.ProductID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("product %s: %w", item.ProductID, repository.ErrNotFound)
			}
			return nil, err
		}
	}

	order := &entity.ClientOrder{
		ID:       uuid.New().String()[:32],
		ClientID: in.ClientID,
		Status:   entity.ClientOrderStatusPending,
		Notes:    in.Notes,
		PlacedAt: time.Now(),
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, entity.ClientOrderItem{
			ID:            uuid.New().String()[:32],
			ClientOrderID: order.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
		})
	}

	if err := s.repos.ClientOrder.Create(ctx, order); err != nil {
		return nil, err
	}

	if _, err := s.feasibility.CheckOrder(ctx, order.ID); err != nil {
		s.logger.Warn("Feasibility check after order creation failed",
			zap.String("client_order_id", order.ID),
			zap.Error(err),
		)
	}

	// Re-read so the caller sees the post-check status.
	return s.repos.ClientOrder.FindByID(ctx, order.ID)
}

func (s *OrderService) List(ctx context.Context, status string, page, pageSize int) ([]entity.ClientOrder, int64, error) {
	return s.repos.ClientOrder.FindAll(ctx, status, page, pageSize)
}

func (s *OrderService) Get(ctx context.Context, id string) (*entity.ClientOrder, error) {
	return s.repos.ClientOrder.FindByID(ctx, id)
}

// CheckFeasibility re-runs the stock check on demand.
func (s *OrderService) CheckFeasibility(ctx context.Context, id string) (*FeasibilityReport, error) {
	return s.feasibility.CheckOrder(ctx, id)
}

// SetStatus applies an explicit operator transition. Terminal states stay
// terminal.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (*entity.ClientOrder, error) {
	order, err := s.repos.ClientOrder.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	valid := map[string]bool{
		entity.ClientOrderStatusPending:       true,
		entity.ClientOrderStatusStockShortage: true,
		entity.ClientOrderStatusInProduction:  true,
		entity.ClientOrderStatusCompleted:     true,
		entity.ClientOrderStatusCancelled:     true,
	}
	if !valid[status] {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidState)
	}
	if order.Status == entity.ClientOrderStatusCompleted || order.Status == entity.ClientOrderStatusCancelled {
		return nil, fmt.Errorf("order is %s: %w", order.Status, ErrInvalidState)
	}

	order.Status = status
	if err := s.repos.ClientOrder.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
