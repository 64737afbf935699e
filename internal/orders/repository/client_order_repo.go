package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/orders/entity"
	"gorm.io/gorm"
)

type ClientOrderRepository struct {
	db *gorm.DB
}

func NewClientOrderRepository(db *gorm.DB) *ClientOrderRepository {
	return &ClientOrderRepository{db: db}
}

func (r *ClientOrderRepository) FindAll(ctx context.Context, status string, page, pageSize int) ([]entity.ClientOrder, int64, error) {
	var items []entity.ClientOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ClientOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Order("placed_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads an order with its client, items, products and each
// product's bill of materials.
func (r *ClientOrderRepository) FindByID(ctx context.Context, id string) (*entity.ClientOrder, error) {
	var o entity.ClientOrder
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Materials").
		Preload("Items.Product.Materials.RawMaterial").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *ClientOrderRepository) Create(ctx context.Context, o *entity.ClientOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ClientOrderRepository) Update(ctx context.Context, o *entity.ClientOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}
