package repository

import (
	"context"
	"errors"

	"github.com/NunoCastro30/TechFlow/internal/orders/entity"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindAll(ctx context.Context, search string, page, pageSize int) ([]entity.Client, int64, error) {
	var items []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{})
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

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) Update(ctx context.Context, c *entity.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}
