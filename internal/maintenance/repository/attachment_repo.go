package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*entity.MaintenanceAttachment, error) {
	var a entity.MaintenanceAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) FindByRequest(ctx context.Context, requestID string) ([]entity.MaintenanceAttachment, error) {
	var items []entity.MaintenanceAttachment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *AttachmentRepository) Create(ctx context.Context, a *entity.MaintenanceAttachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}
