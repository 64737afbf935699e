package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"github.com/NunoCastro30/TechFlow/internal/maintenance/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidState = errors.New("operation not allowed in current state")

// MaintenanceService runs the machine maintenance workflow: reported
// problems, technician interventions and the overdue report.
type MaintenanceService struct {
	repos                *repository.Repositories
	notifier             notify.Notifier
	logger               *zap.Logger
	overdueAfter         time.Duration
	maintenanceRecipient string
	productionRecipient  string
}

func NewMaintenanceService(repos *repository.Repositories, notifier notify.Notifier, logger *zap.Logger, overdueAfterDays int, maintenanceRecipient, productionRecipient string) *MaintenanceService {
	return &MaintenanceService{
		repos:                repos,
		notifier:             notifier,
		logger:               logger,
		overdueAfter:         time.Duration(overdueAfterDays) * 24 * time.Hour,
		maintenanceRecipient: maintenanceRecipient,
		productionRecipient:  productionRecipient,
	}
}

type CreateRequestInput struct {
	MachineID   string `json:"machine_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	OpenedBy    string `json:"opened_by"`
}

// CreateRequest files a new problem report and alerts the maintenance team.
func (s *MaintenanceService) CreateRequest(ctx context.Context, in *CreateRequestInput) (*entity.MaintenanceRequest, error) {
	machine, err := s.repos.Machine.FindByID(ctx, in.MachineID)
	if err != nil {
		return nil, err
	}

	req := &entity.MaintenanceRequest{
		ID:          uuid.New().String()[:32],
		MachineID:   machine.ID,
		Description: in.Description,
		Status:      entity.RequestStatusOpen,
		OpenedBy:    in.OpenedBy,
		OpenedAt:    time.Now(),
	}
	if err := s.repos.Request.Create(ctx, req); err != nil {
		return nil, err
	}

	subject := "Maintenance - New request for " + machine.Name
	body := fmt.Sprintf("A maintenance request was opened for machine %s (%s).\n\nProblem: %s", machine.Name, machine.Code, req.Description)
	if err := s.notifier.Deliver(ctx, s.maintenanceRecipient, subject, body); err != nil {
		s.logger.Warn("Failed to deliver maintenance request notification",
			zap.String("maintenance_request_id", req.ID),
			zap.Error(err),
		)
	}

	return req, nil
}

func (s *MaintenanceService) ListRequests(ctx context.Context, status string, page, pageSize int) ([]entity.MaintenanceRequest, int64, error) {
	return s.repos.Request.FindAll(ctx, status, page, pageSize)
}

func (s *MaintenanceService) GetRequest(ctx context.Context, id string) (*entity.MaintenanceRequest, error) {
	return s.repos.Request.FindByID(ctx, id)
}

// ListOverdue returns requests open strictly longer than the configured
// window.
func (s *MaintenanceService) ListOverdue(ctx context.Context) ([]entity.MaintenanceRequest, error) {
	cutoff := time.Now().Add(-s.overdueAfter)
	return s.repos.Request.FindOverdue(ctx, cutoff)
}

// SetRequestStatus applies an operator transition. Closed requests stay
// closed; declining stamps the close time.
func (s *MaintenanceService) SetRequestStatus(ctx context.Context, id, status string) (*entity.MaintenanceRequest, error) {
	req, err := s.repos.Request.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	valid := map[string]bool{
		entity.RequestStatusOpen:     true,
		entity.RequestStatusWaiting:  true,
		entity.RequestStatusDeclined: true,
	}
	if !valid[status] {
		return nil, fmt.Errorf("unknown or reserved status %q: %w", status, ErrInvalidState)
	}
	if req.Status == entity.RequestStatusCompleted || req.Status == entity.RequestStatusDeclined {
		return nil, fmt.Errorf("request is %s: %w", req.Status, ErrInvalidState)
	}

	req.Status = status
	if status == entity.RequestStatusDeclined {
		now := time.Now()
		req.ClosedAt = &now
	}
	if err := s.repos.Request.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

type StartRecordInput struct {
	Technician string `json:"technician"`
	Notes      string `json:"notes"`
}

// StartRecord opens a technician intervention on a request that is still
// actionable.
func (s *MaintenanceService) StartRecord(ctx context.Context, requestID string, in *StartRecordInput) (*entity.MaintenanceRecord, error) {
	req, err := s.repos.Request.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status == entity.RequestStatusCompleted || req.Status == entity.RequestStatusDeclined {
		return nil, fmt.Errorf("request is %s: %w", req.Status, ErrInvalidState)
	}

	rec := &entity.MaintenanceRecord{
		ID:         uuid.New().String()[:32],
		RequestID:  req.ID,
		Technician: in.Technician,
		Status:     entity.RecordStatusInProgress,
		Notes:      in.Notes,
		StartedAt:  time.Now(),
	}
	if err := s.repos.Record.Create(ctx, rec); err != nil {
		return nil, err
	}

	if req.Status == entity.RequestStatusOpen {
		req.Status = entity.RequestStatusWaiting
		if err := s.repos.Request.Update(ctx, req); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

type ResolveRecordInput struct {
	Notes string `json:"notes"`
}

// ResolveRecord finishes an intervention and completes the owning request,
// then tells production the machine is back.
func (s *MaintenanceService) ResolveRecord(ctx context.Context, recordID string, in *ResolveRecordInput) (*entity.MaintenanceRecord, error) {
	rec, err := s.repos.Record.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.Status != entity.RecordStatusInProgress {
		return nil, fmt.Errorf("record is %s: %w", rec.Status, ErrInvalidState)
	}

	now := time.Now()
	rec.Status = entity.RecordStatusResolved
	rec.FinishedAt = &now
	if in.Notes != "" {
		rec.Notes = in.Notes
	}
	if err := s.repos.Record.Update(ctx, rec); err != nil {
		return nil, err
	}

	req, err := s.repos.Request.FindByID(ctx, rec.RequestID)
	if err != nil {
		return nil, err
	}
	req.Status = entity.RequestStatusCompleted
	req.ClosedAt = &now
	if err := s.repos.Request.Update(ctx, req); err != nil {
		return nil, err
	}

	machineName := req.MachineID
	if req.Machine != nil {
		machineName = req.Machine.Name
	}
	subject := "Production - Maintenance completed on " + machineName
	body := fmt.Sprintf("The maintenance request for machine %s has been completed.\n\nProblem: %s\nResolution: %s", machineName, req.Description, rec.Notes)
	if err := s.notifier.Deliver(ctx, s.productionRecipient, subject, body); err != nil {
		s.logger.Warn("Failed to deliver maintenance completion notification",
			zap.String("maintenance_request_id", req.ID),
			zap.Error(err),
		)
	}

	return rec, nil
}
