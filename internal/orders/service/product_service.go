package service

import (
	"context"

	"github.com/NunoCastro30/TechFlow/internal/orders/entity"
	"github.com/NunoCastro30/TechFlow/internal/orders/repository"
	"github.com/google/uuid"
)

type ProductService struct {
	products *repository.ProductRepository
}

func NewProductService(products *repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

type ProductMaterialInput struct {
	RawMaterialID string `json:"raw_material_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
}

type CreateProductInput struct {
	Code      string                 `json:"code" binding:"required"`
	Name      string                 `json:"name" binding:"required"`
	Price     float64                `json:"price" binding:"gte=0"`
	Materials []ProductMaterialInput `json:"materials" binding:"dive"`
}

func (s *ProductService) Create(ctx context.Context, in *CreateProductInput) (*entity.Product, error) {
	p := &entity.Product{
		ID:    uuid.New().String()[:32],
		Code:  in.Code,
		Name:  in.Name,
		Price: in.Price,
	}
	for _, m := range in.Materials {
		p.Materials = append(p.Materials, entity.ProductMaterial{
			ID:            uuid.New().String()[:32],
			ProductID:     p.ID,
			RawMaterialID: m.RawMaterialID,
			Quantity:      m.Quantity,
		})
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, search string, page, pageSize int) ([]entity.Product, int64, error) {
	return s.products.FindAll(ctx, search, page, pageSize)
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	return s.products.FindByID(ctx, id)
}

// SetMaterials replaces the product's bill of materials.
func (s *ProductService) SetMaterials(ctx context.Context, id string, in []ProductMaterialInput) (*entity.Product, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, err
	}

	materials := make([]entity.ProductMaterial, 0, len(in))
	for _, m := range in {
		materials = append(materials, entity.ProductMaterial{
			ID:            uuid.New().String()[:32],
			ProductID:     id,
			RawMaterialID: m.RawMaterialID,
			Quantity:      m.Quantity,
		})
	}

	if err := s.products.ReplaceMaterials(ctx, id, materials); err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, id)
}
