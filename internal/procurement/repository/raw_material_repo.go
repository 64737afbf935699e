package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"gorm.io/gorm"
)

type RawMaterialRepository struct {
	db *gorm.DB
}

func NewRawMaterialRepository(db *gorm.DB) *RawMaterialRepository {
	return &RawMaterialRepository{db: db}
}

func (r *RawMaterialRepository) FindAll(ctx context.Context, category, search string, page, pageSize int) ([]entity.RawMaterial, int64, error) {
	var items []entity.RawMaterial
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RawMaterial{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
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

func (r *RawMaterialRepository) FindByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *RawMaterialRepository) Create(ctx context.Context, m *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *RawMaterialRepository) Update(ctx context.Context, m *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Save(m).Error
}
