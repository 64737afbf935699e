package service

import (
	"context"

	"github.com/NunoCastro30/TechFlow/internal/orders/entity"
	"github.com/NunoCastro30/TechFlow/internal/orders/repository"
	"github.com/google/uuid"
)

type ClientService struct {
	clients *repository.ClientRepository
}

func NewClientService(clients *repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

type CreateClientInput struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
}

func (s *ClientService) Create(ctx context.Context, in *CreateClientInput) (*entity.Client, error) {
	c := &entity.Client{
		ID:      uuid.New().String()[:32],
		Code:    in.Code,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		TaxID:   in.TaxID,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context, search string, page, pageSize int) ([]entity.Client, int64, error) {
	return s.clients.FindAll(ctx, search, page, pageSize)
}

func (s *ClientService) Get(ctx context.Context, id string) (*entity.Client, error) {
	return s.clients.FindByID(ctx, id)
}

type UpdateClientInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	TaxID   *string `json:"tax_id"`
}

func (s *ClientService) Update(ctx context.Context, id string, in *UpdateClientInput) (*entity.Client, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.TaxID != nil {
		c.TaxID = *in.TaxID
	}

	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
