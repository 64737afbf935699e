package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"gorm.io/gorm"
)

type OrderNoteRepository struct {
	db *gorm.DB
}

func NewOrderNoteRepository(db *gorm.DB) *OrderNoteRepository {
	return &OrderNoteRepository{db: db}
}

func (r *OrderNoteRepository) FindByID(ctx context.Context, id string) (*entity.OrderNote, error) {
	var n entity.OrderNote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.RawMaterial").
		Where("id = ?", id).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *OrderNoteRepository) FindByBudget(ctx context.Context, budgetID string) (*entity.OrderNote, error) {
	var n entity.OrderNote
	err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *OrderNoteRepository) FindAll(ctx context.Context, page, pageSize int) ([]entity.OrderNote, int64, error) {
	var items []entity.OrderNote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.OrderNote{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("issued_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *OrderNoteRepository) Create(ctx context.Context, n *entity.OrderNote) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *OrderNoteRepository) Update(ctx context.Context, n *entity.OrderNote) error {
	return r.db.WithContext(ctx).Save(n).Error
}
