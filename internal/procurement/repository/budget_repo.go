package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// FindByID loads a budget with its items.
func (r *BudgetRepository) FindByID(ctx context.Context, id string) (*entity.Budget, error) {
	var b entity.Budget
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) FindByQuotation(ctx context.Context, quotationRequestID string) ([]entity.Budget, error) {
	var items []entity.Budget
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quotation_request_id = ?", quotationRequestID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *BudgetRepository) Create(ctx context.Context, b *entity.Budget) error {
	return r.db.WithContext(ctx).Create(b).Error
}
