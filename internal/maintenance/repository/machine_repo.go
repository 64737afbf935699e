package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) FindAll(ctx context.Context, search string, page, pageSize int) ([]entity.Machine, int64, error) {
	var items []entity.Machine
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Machine{})
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

func (r *MachineRepository) FindByID(ctx context.Context, id string) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MachineRepository) Create(ctx context.Context, m *entity.Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MachineRepository) Update(ctx context.Context, m *entity.Machine) error {
	return r.db.WithContext(ctx).Save(m).Error
}
