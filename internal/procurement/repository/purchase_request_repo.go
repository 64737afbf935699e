package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"gorm.io/gorm"
)

type PurchaseRequestRepository struct {
	db *gorm.DB
}

func NewPurchaseRequestRepository(db *gorm.DB) *PurchaseRequestRepository {
	return &PurchaseRequestRepository{db: db}
}

// FindAll lists purchase requests, optionally filtered by status.
func (r *PurchaseRequestRepository) FindAll(ctx context.Context, status string, page, pageSize int) ([]entity.PurchaseRequest, int64, error) {
	var items []entity.PurchaseRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("opened_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a purchase request with its items and their materials.
func (r *PurchaseRequestRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	var pr entity.PurchaseRequest
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items.RawMaterial").
		Where("id = ?", id).
		First(&pr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// FindNewestByDescription resolves the purchase request a quotation belongs
// to. The link is the copied description string, so ties are broken by
// recency.
func (r *PurchaseRequestRepository) FindNewestByDescription(ctx context.Context, description string) (*entity.PurchaseRequest, error) {
	var pr entity.PurchaseRequest
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items.RawMaterial").
		Where("description = ?", description).
		Order("opened_at DESC").
		First(&pr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (r *PurchaseRequestRepository) Create(ctx context.Context, pr *entity.PurchaseRequest) error {
	return r.db.WithContext(ctx).Create(pr).Error
}

func (r *PurchaseRequestRepository) Update(ctx context.Context, pr *entity.PurchaseRequest) error {
	return r.db.WithContext(ctx).Save(pr).Error
}
