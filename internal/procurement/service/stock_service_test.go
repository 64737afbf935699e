package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/NunoCastro30/TechFlow/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStockTest(t *testing.T) (*gorm.DB, *StockService, *notify.Recorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	recorder := notify.NewRecorder()
	materials := repository.NewRawMaterialRepository(db)
	svc := NewStockService(materials, recorder, zap.NewNop(), 10, "purchasing@techflow.local")
	return db, svc, recorder
}

func TestCheckCriticalBelowThreshold(t *testing.T) {
	db, svc, recorder := setupStockTest(t)

	m := testutil.SeedMaterial(t, db, "M4 screws", 5)
	svc.CheckCritical(context.Background(), m.ID)

	msgs := recorder.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(msgs))
	}
	if msgs[0].Subject != "Low Stock - M4 screws" {
		t.Errorf("subject = %q", msgs[0].Subject)
	}
	if !strings.Contains(msgs[0].Body, "M4 screws") || !strings.Contains(msgs[0].Body, "5") {
		t.Errorf("body missing material name or quantity: %q", msgs[0].Body)
	}
	if msgs[0].Recipient != "purchasing@techflow.local" {
		t.Errorf("recipient = %q", msgs[0].Recipient)
	}
}

func TestCheckCriticalAtOrAboveThreshold(t *testing.T) {
	db, svc, recorder := setupStockTest(t)

	at := testutil.SeedMaterial(t, db, "Washers", 10)
	above := testutil.SeedMaterial(t, db, "Bolts", 12)

	svc.CheckCritical(context.Background(), at.ID)
	svc.CheckCritical(context.Background(), above.ID)

	if n := len(recorder.Messages()); n != 0 {
		t.Fatalf("expected no alerts, got %d", n)
	}
}

func TestCheckCriticalUnknownMaterialSilent(t *testing.T) {
	_, svc, recorder := setupStockTest(t)

	svc.CheckCritical(context.Background(), "does-not-exist")

	if n := len(recorder.Messages()); n != 0 {
		t.Fatalf("expected no alerts for unknown id, got %d", n)
	}
}

func TestCheckCriticalDeltaOnlyOnDrop(t *testing.T) {
	db, svc, recorder := setupStockTest(t)
	ctx := context.Background()

	m := testutil.SeedMaterial(t, db, "Bearing grease", 5)

	// Already critical but unchanged: no re-alert.
	svc.CheckCriticalDelta(ctx, m.ID, 5)
	if n := len(recorder.Messages()); n != 0 {
		t.Fatalf("expected no alert on unchanged quantity, got %d", n)
	}

	// Went up while still critical: no alert.
	svc.CheckCriticalDelta(ctx, m.ID, 3)
	if n := len(recorder.Messages()); n != 0 {
		t.Fatalf("expected no alert on upward move, got %d", n)
	}

	// Dropped further below the threshold: alert.
	svc.CheckCriticalDelta(ctx, m.ID, 8)
	if n := len(recorder.Messages()); n != 1 {
		t.Fatalf("expected 1 alert on downward crossing, got %d", n)
	}
}

func TestStockAlertFailureSwallowed(t *testing.T) {
	db, svc, recorder := setupStockTest(t)

	m := testutil.SeedMaterial(t, db, "Solder wire", 2)
	recorder.FailWith(errors.New("relay unavailable"))

	// Must not panic or surface the error anywhere.
	svc.CheckCritical(context.Background(), m.ID)
}
