package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"gorm.io/gorm"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*entity.MaintenanceRecord, error) {
	var rec entity.MaintenanceRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepository) FindByRequest(ctx context.Context, requestID string) ([]entity.MaintenanceRecord, error) {
	var items []entity.MaintenanceRecord
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("started_at ASC").
		Find(&items).Error
	return items, err
}

func (r *RecordRepository) Create(ctx context.Context, rec *entity.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *RecordRepository) Update(ctx context.Context, rec *entity.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}
