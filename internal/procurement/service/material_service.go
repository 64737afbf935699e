package service

import (
	"context"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/google/uuid"
)

// MaterialService is inventory CRUD plus the stock-check hooks fired on every
// quantity change.
type MaterialService struct {
	materials *repository.RawMaterialRepository
	stock     *StockService
}

func NewMaterialService(materials *repository.RawMaterialRepository, stock *StockService) *MaterialService {
	return &MaterialService{materials: materials, stock: stock}
}

type CreateMaterialInput struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity" binding:"gte=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

func (s *MaterialService) Create(ctx context.Context, in *CreateMaterialInput) (*entity.RawMaterial, error) {
	m := &entity.RawMaterial{
		ID:        uuid.New().String()[:32],
		Code:      in.Code,
		Name:      in.Name,
		Category:  in.Category,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}
	if err := s.materials.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MaterialService) List(ctx context.Context, category, search string, page, pageSize int) ([]entity.RawMaterial, int64, error) {
	return s.materials.FindAll(ctx, category, search, page, pageSize)
}

func (s *MaterialService) Get(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return s.materials.FindByID(ctx, id)
}

type UpdateMaterialInput struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	Quantity  *int     `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
}

// Update applies a partial update and runs an absolute stock check afterwards.
func (s *MaterialService) Update(ctx context.Context, id string, in *UpdateMaterialInput) (*entity.RawMaterial, error) {
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.Quantity != nil {
		m.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		m.UnitPrice = *in.UnitPrice
	}

	if err := s.materials.Update(ctx, m); err != nil {
		return nil, err
	}

	s.stock.CheckCritical(ctx, m.ID)
	return m, nil
}

// SetQuantity replaces the stock level and runs a direction-aware check, so
// only a drop below the threshold alerts.
func (s *MaterialService) SetQuantity(ctx context.Context, id string, quantity int) (*entity.RawMaterial, error) {
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := m.Quantity
	m.Quantity = quantity
	if err := s.materials.Update(ctx, m); err != nil {
		return nil, err
	}

	s.stock.CheckCriticalDelta(ctx, m.ID, previous)
	return m, nil
}
