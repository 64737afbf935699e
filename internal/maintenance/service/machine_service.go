package service

import (
	"context"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"github.com/NunoCastro30/TechFlow/internal/maintenance/repository"
	"github.com/google/uuid"
)

type MachineService struct {
	machines *repository.MachineRepository
}

func NewMachineService(machines *repository.MachineRepository) *MachineService {
	return &MachineService{machines: machines}
}

type CreateMachineInput struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (s *MachineService) Create(ctx context.Context, in *CreateMachineInput) (*entity.Machine, error) {
	m := &entity.Machine{
		ID:          uuid.New().String()[:32],
		Code:        in.Code,
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		Active:      true,
	}
	if err := s.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MachineService) List(ctx context.Context, search string, page, pageSize int) ([]entity.Machine, int64, error) {
	return s.machines.FindAll(ctx, search, page, pageSize)
}

func (s *MachineService) Get(ctx context.Context, id string) (*entity.Machine, error) {
	return s.machines.FindByID(ctx, id)
}

type UpdateMachineInput struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (s *MachineService) Update(ctx context.Context, id string, in *UpdateMachineInput) (*entity.Machine, error) {
	m, err := s.machines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Location != nil {
		m.Location = *in.Location
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Active != nil {
		m.Active = *in.Active
	}

	if err := s.machines.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
