package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/production/entity"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type ProductionOrderRepository struct {
	db *gorm.DB
}

func NewProductionOrderRepository(db *gorm.DB) *ProductionOrderRepository {
	return &ProductionOrderRepository{db: db}
}

func (r *ProductionOrderRepository) FindAll(ctx context.Context, status string, page, pageSize int) ([]entity.ProductionOrder, int64, error) {
	var items []entity.ProductionOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProductionOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Product").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a production order with its product, the product's bill of
// materials and the recorded batches.
func (r *ProductionOrderRepository) FindByID(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	var po entity.ProductionOrder
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Materials").
		Preload("Product.Materials.RawMaterial").
		Preload("Records", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded_at ASC")
		}).
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

func (r *ProductionOrderRepository) Create(ctx context.Context, po *entity.ProductionOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *ProductionOrderRepository) Update(ctx context.Context, po *entity.ProductionOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}
