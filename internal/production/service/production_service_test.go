package service

import (
	"context"
	"errors"
	"testing"

	ordersentity "github.com/NunoCastro30/TechFlow/internal/orders/entity"
	ordersrepo "github.com/NunoCastro30/TechFlow/internal/orders/repository"
	procurement "github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	procrepo "github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	procservice "github.com/NunoCastro30/TechFlow/internal/procurement/service"
	"github.com/NunoCastro30/TechFlow/internal/production/entity"
	"github.com/NunoCastro30/TechFlow/internal/production/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/NunoCastro30/TechFlow/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProductionTest(t *testing.T) (*gorm.DB, *ProductionService, *notify.Recorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	recorder := notify.NewRecorder()
	stock := procservice.NewStockService(procrepo.NewRawMaterialRepository(db), recorder, zap.NewNop(), 10, "purchasing@techflow.local")
	svc := NewProductionService(db, repository.NewProductionOrderRepository(db), ordersrepo.NewProductRepository(db), stock, zap.NewNop())
	return db, svc, recorder
}

func seedProductWithBOM(t *testing.T, db *gorm.DB, name string, materialID string, perUnit int) *ordersentity.Product {
	t.Helper()
	p := &ordersentity.Product{
		ID:    uuid.New().String()[:32],
		Code:  "PRD-" + uuid.New().String()[:8],
		Name:  name,
		Price: 25,
		Materials: []ordersentity.ProductMaterial{
			{
				ID:            uuid.New().String()[:32],
				RawMaterialID: materialID,
				Quantity:      perUnit,
			},
		},
	}
	p.Materials[0].ProductID = p.ID
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return p
}

func TestRecordBatchConsumesStockAndCompletes(t *testing.T) {
	db, svc, _ := setupProductionTest(t)
	ctx := context.Background()

	material := testutil.SeedMaterial(t, db, "Sheet metal", 100)
	product := seedProductWithBOM(t, db, "Cabinet", material.ID, 3)

	po, err := svc.Create(ctx, &CreateProductionOrderInput{ProductID: product.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Start(ctx, po.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	after, err := svc.RecordBatch(ctx, po.ID, &RecordBatchInput{Quantity: 6, RecordedBy: "op-01"})
	if err != nil {
		t.Fatalf("RecordBatch failed: %v", err)
	}
	if after.Status != entity.ProductionStatusInProgress {
		t.Errorf("order status = %q, want in_progress after partial batch", after.Status)
	}

	var m procurement.RawMaterial
	db.Where("id = ?", material.ID).First(&m)
	if m.Quantity != 82 {
		t.Errorf("material quantity = %d, want 82 (100 - 6*3)", m.Quantity)
	}

	after, err = svc.RecordBatch(ctx, po.ID, &RecordBatchInput{Quantity: 4, RecordedBy: "op-01"})
	if err != nil {
		t.Fatalf("RecordBatch failed: %v", err)
	}
	if after.Status != entity.ProductionStatusCompleted {
		t.Errorf("order status = %q, want completed at target quantity", after.Status)
	}
	if after.CompletedAt == nil {
		t.Error("completed_at not set")
	}
	if len(after.Records) != 2 {
		t.Errorf("expected 2 production records, got %d", len(after.Records))
	}

	// Completed orders take no more batches.
	if _, err := svc.RecordBatch(ctx, po.ID, &RecordBatchInput{Quantity: 1}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on completed order, got %v", err)
	}
}

func TestRecordBatchInsufficientStockRollsBack(t *testing.T) {
	db, svc, _ := setupProductionTest(t)
	ctx := context.Background()

	material := testutil.SeedMaterial(t, db, "Glass panel", 5)
	product := seedProductWithBOM(t, db, "Display case", material.ID, 2)

	po, _ := svc.Create(ctx, &CreateProductionOrderInput{ProductID: product.ID, Quantity: 10})
	if _, err := svc.Start(ctx, po.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err := svc.RecordBatch(ctx, po.ID, &RecordBatchInput{Quantity: 4})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Nothing was consumed and no record was written.
	var m procurement.RawMaterial
	db.Where("id = ?", material.ID).First(&m)
	if m.Quantity != 5 {
		t.Errorf("material quantity = %d, want 5 untouched", m.Quantity)
	}
	var count int64
	db.Model(&entity.ProductionRecord{}).Where("production_order_id = ?", po.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 production records, got %d", count)
	}
}

func TestRecordBatchTriggersLowStockAlert(t *testing.T) {
	db, svc, recorder := setupProductionTest(t)
	ctx := context.Background()

	material := testutil.SeedMaterial(t, db, "Hinge set", 12)
	product := seedProductWithBOM(t, db, "Door", material.ID, 1)

	po, _ := svc.Create(ctx, &CreateProductionOrderInput{ProductID: product.ID, Quantity: 20})
	if _, err := svc.Start(ctx, po.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// 12 -> 7 crosses the threshold of 10 downwards.
	if _, err := svc.RecordBatch(ctx, po.ID, &RecordBatchInput{Quantity: 5}); err != nil {
		t.Fatalf("RecordBatch failed: %v", err)
	}

	msgs := recorder.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 low stock alert, got %d", len(msgs))
	}
	if msgs[0].Subject != "Low Stock - Hinge set" {
		t.Errorf("subject = %q", msgs[0].Subject)
	}
}

func TestStartAndCancelGuards(t *testing.T) {
	db, svc, _ := setupProductionTest(t)
	ctx := context.Background()

	material := testutil.SeedMaterial(t, db, "Foam padding", 50)
	product := seedProductWithBOM(t, db, "Seat", material.ID, 1)

	po, _ := svc.Create(ctx, &CreateProductionOrderInput{ProductID: product.ID, Quantity: 5})

	// Batches cannot be recorded before the order starts.
	if _, err := svc.RecordBatch(ctx, po.ID, &RecordBatchInput{Quantity: 1}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on pending order, got %v", err)
	}

	if _, err := svc.Start(ctx, po.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Start(ctx, po.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double start, got %v", err)
	}

	cancelled, err := svc.Cancel(ctx, po.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != entity.ProductionStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if _, err := svc.Cancel(ctx, po.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState cancelling twice, got %v", err)
	}
}
