package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/orders/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindAll(ctx context.Context, search string, page, pageSize int) ([]entity.Product, int64, error) {
	var items []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a product with its bill of materials.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).
		Preload("Materials").
		Preload("Materials.RawMaterial").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// ReplaceMaterials swaps a product's bill of materials atomically.
func (r *ProductRepository) ReplaceMaterials(ctx context.Context, productID string, materials []entity.ProductMaterial) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&entity.ProductMaterial{}).Error; err != nil {
			return err
		}
		if len(materials) == 0 {
			return nil
		}
		return tx.Create(&materials).Error
	})
}
