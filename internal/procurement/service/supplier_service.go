package service

import (
	"context"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/google/uuid"
)

type SupplierService struct {
	suppliers *repository.SupplierRepository
}

func NewSupplierService(suppliers *repository.SupplierRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers}
}

type CreateSupplierInput struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
	Notes   string `json:"notes"`
}

func (s *SupplierService) Create(ctx context.Context, in *CreateSupplierInput) (*entity.Supplier, error) {
	sup := &entity.Supplier{
		ID:      uuid.New().String()[:32],
		Code:    in.Code,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		TaxID:   in.TaxID,
		Notes:   in.Notes,
	}
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *SupplierService) List(ctx context.Context, search string, page, pageSize int) ([]entity.Supplier, int64, error) {
	return s.suppliers.FindAll(ctx, search, page, pageSize)
}

func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}

type UpdateSupplierInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	TaxID   *string `json:"tax_id"`
	Notes   *string `json:"notes"`
}

func (s *SupplierService) Update(ctx context.Context, id string, in *UpdateSupplierInput) (*entity.Supplier, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		sup.Name = *in.Name
	}
	if in.Email != nil {
		sup.Email = *in.Email
	}
	if in.Phone != nil {
		sup.Phone = *in.Phone
	}
	if in.Address != nil {
		sup.Address = *in.Address
	}
	if in.TaxID != nil {
		sup.TaxID = *in.TaxID
	}
	if in.Notes != nil {
		sup.Notes = *in.Notes
	}

	if err := s.suppliers.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}
