package repository

import (
	"context"
	"errors"
	"time"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) FindAll(ctx context.Context, status string, page, pageSize int) ([]entity.MaintenanceRequest, int64, error) {
	var items []entity.MaintenanceRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MaintenanceRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Machine").
		Order("opened_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*entity.MaintenanceRequest, error) {
	var req entity.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Preload("Records", func(db *gorm.DB) *gorm.DB {
			return db.Order("started_at ASC")
		}).
		Preload("Attachments").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindOverdue lists requests still open strictly longer than the cutoff.
// Requests that reached resolved or completed are out, whatever their age.
func (r *RequestRepository) FindOverdue(ctx context.Context, cutoff time.Time) ([]entity.MaintenanceRequest, error) {
	var items []entity.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Where("status NOT IN ?", []string{entity.RequestStatusResolved, entity.RequestStatusCompleted}).
		Where("opened_at < ?", cutoff).
		Order("opened_at ASC").
		Find(&items).Error
	return items, err
}

func (r *RequestRepository) Create(ctx context.Context, req *entity.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) Update(ctx context.Context, req *entity.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
