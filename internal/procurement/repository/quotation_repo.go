package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"gorm.io/gorm"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// FindByID loads a quotation request with its budgets and their items.
func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*entity.QuotationRequest, error) {
	var qr entity.QuotationRequest
	err := r.db.WithContext(ctx).
		Preload("Budgets", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Budgets.Items").
		Where("id = ?", id).
		First(&qr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &qr, nil
}

func (r *QuotationRepository) FindBySupplier(ctx context.Context, supplierID string) ([]entity.QuotationRequest, error) {
	var items []entity.QuotationRequest
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *QuotationRepository) Create(ctx context.Context, qr *entity.QuotationRequest) error {
	return r.db.WithContext(ctx).Create(qr).Error
}

func (r *QuotationRepository) Update(ctx context.Context, qr *entity.QuotationRequest) error {
	return r.db.WithContext(ctx).Save(qr).Error
}
