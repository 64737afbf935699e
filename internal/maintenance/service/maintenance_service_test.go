package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"github.com/NunoCastro30/TechFlow/internal/maintenance/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/NunoCastro30/TechFlow/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupMaintenanceTest(t *testing.T) (*gorm.DB, *MaintenanceService, *notify.Recorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	recorder := notify.NewRecorder()
	repos := repository.NewRepositories(db)
	svc := NewMaintenanceService(repos, recorder, zap.NewNop(), 7, "maintenance@techflow.local", "production@techflow.local")
	return db, svc, recorder
}

func seedMachine(t *testing.T, db *gorm.DB, name string) *entity.Machine {
	t.Helper()
	m := &entity.Machine{
		ID:     uuid.New().String()[:32],
		Code:   "MCH-" + uuid.New().String()[:8],
		Name:   name,
		Active: true,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to seed machine: %v", err)
	}
	return m
}

func seedRequestAged(t *testing.T, db *gorm.DB, machineID, status string, age time.Duration) *entity.MaintenanceRequest {
	t.Helper()
	req := &entity.MaintenanceRequest{
		ID:          uuid.New().String()[:32],
		MachineID:   machineID,
		Description: "seeded problem",
		Status:      status,
		OpenedAt:    time.Now().Add(-age),
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("Failed to seed maintenance request: %v", err)
	}
	return req
}

func TestCreateRequestNotifiesMaintenance(t *testing.T) {
	db, svc, recorder := setupMaintenanceTest(t)

	machine := seedMachine(t, db, "CNC Mill 3")
	req, err := svc.CreateRequest(context.Background(), &CreateRequestInput{
		MachineID:   machine.ID,
		Description: "Spindle vibrates above 4000 rpm",
		OpenedBy:    "op-17",
	})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if req.Status != entity.RequestStatusOpen {
		t.Errorf("request status = %q, want open", req.Status)
	}

	msgs := recorder.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(msgs))
	}
	if msgs[0].Subject != "Maintenance - New request for CNC Mill 3" {
		t.Errorf("subject = %q", msgs[0].Subject)
	}
	if msgs[0].Recipient != "maintenance@techflow.local" {
		t.Errorf("recipient = %q", msgs[0].Recipient)
	}
	if !strings.Contains(msgs[0].Body, "Spindle vibrates") {
		t.Errorf("body missing problem description: %q", msgs[0].Body)
	}
}

func TestCreateRequestUnknownMachine(t *testing.T) {
	_, svc, _ := setupMaintenanceTest(t)

	_, err := svc.CreateRequest(context.Background(), &CreateRequestInput{
		MachineID:   "missing",
		Description: "whatever",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOverdueBoundaries(t *testing.T) {
	db, svc, _ := setupMaintenanceTest(t)

	machine := seedMachine(t, db, "Press 1")
	old := seedRequestAged(t, db, machine.ID, entity.RequestStatusOpen, 8*24*time.Hour)
	waiting := seedRequestAged(t, db, machine.ID, entity.RequestStatusWaiting, 9*24*time.Hour)
	seedRequestAged(t, db, machine.ID, entity.RequestStatusOpen, 3*24*time.Hour)
	seedRequestAged(t, db, machine.ID, entity.RequestStatusResolved, 10*24*time.Hour)
	seedRequestAged(t, db, machine.ID, entity.RequestStatusCompleted, 10*24*time.Hour)

	overdue, err := svc.ListOverdue(context.Background())
	if err != nil {
		t.Fatalf("ListOverdue failed: %v", err)
	}
	if len(overdue) != 2 {
		t.Fatalf("expected 2 overdue requests, got %d", len(overdue))
	}
	// Oldest first.
	if overdue[0].ID != waiting.ID || overdue[1].ID != old.ID {
		t.Errorf("unexpected overdue order: %s, %s", overdue[0].ID, overdue[1].ID)
	}
}

func TestResolveRecordCompletesRequestAndNotifiesProduction(t *testing.T) {
	db, svc, recorder := setupMaintenanceTest(t)
	ctx := context.Background()

	machine := seedMachine(t, db, "Lathe 2")
	req, err := svc.CreateRequest(ctx, &CreateRequestInput{
		MachineID:   machine.ID,
		Description: "Chuck does not hold pressure",
	})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	rec, err := svc.StartRecord(ctx, req.ID, &StartRecordInput{Technician: "tech-02"})
	if err != nil {
		t.Fatalf("StartRecord failed: %v", err)
	}

	afterStart, _ := svc.GetRequest(ctx, req.ID)
	if afterStart.Status != entity.RequestStatusWaiting {
		t.Errorf("request status = %q, want waiting", afterStart.Status)
	}

	resolved, err := svc.ResolveRecord(ctx, rec.ID, &ResolveRecordInput{Notes: "Replaced hydraulic seal"})
	if err != nil {
		t.Fatalf("ResolveRecord failed: %v", err)
	}
	if resolved.Status != entity.RecordStatusResolved {
		t.Errorf("record status = %q, want resolved", resolved.Status)
	}
	if resolved.FinishedAt == nil {
		t.Error("record finished_at not set")
	}

	done, _ := svc.GetRequest(ctx, req.ID)
	if done.Status != entity.RequestStatusCompleted {
		t.Errorf("request status = %q, want completed", done.Status)
	}
	if done.ClosedAt == nil {
		t.Error("request closed_at not set")
	}

	msgs := recorder.Messages()
	// One for the opened request, one for the completion.
	if len(msgs) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(msgs))
	}
	last := msgs[1]
	if last.Subject != "Production - Maintenance completed on Lathe 2" {
		t.Errorf("subject = %q", last.Subject)
	}
	if last.Recipient != "production@techflow.local" {
		t.Errorf("recipient = %q", last.Recipient)
	}
	if !strings.Contains(last.Body, "Replaced hydraulic seal") {
		t.Errorf("body missing resolution notes: %q", last.Body)
	}

	// Resolving twice is refused.
	if _, err := svc.ResolveRecord(ctx, rec.ID, &ResolveRecordInput{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double resolve, got %v", err)
	}
}

func TestSetRequestStatusTerminalStates(t *testing.T) {
	db, svc, _ := setupMaintenanceTest(t)
	ctx := context.Background()

	machine := seedMachine(t, db, "Welder 4")
	req, err := svc.CreateRequest(ctx, &CreateRequestInput{
		MachineID:   machine.ID,
		Description: "Wire feed jams",
	})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	// Operators cannot set the reserved workflow statuses directly.
	if _, err := svc.SetRequestStatus(ctx, req.ID, entity.RequestStatusCompleted); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState setting completed directly, got %v", err)
	}

	declined, err := svc.SetRequestStatus(ctx, req.ID, entity.RequestStatusDeclined)
	if err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if declined.ClosedAt == nil {
		t.Error("declined request closed_at not set")
	}

	if _, err := svc.SetRequestStatus(ctx, req.ID, entity.RequestStatusOpen); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState reopening declined request, got %v", err)
	}
	if _, err := svc.StartRecord(ctx, req.ID, &StartRecordInput{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState starting record on declined request, got %v", err)
	}
}
