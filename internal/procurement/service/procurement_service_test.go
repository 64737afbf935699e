package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/NunoCastro30/TechFlow/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProcurementTest(t *testing.T) (*gorm.DB, *ProcurementService, *notify.Recorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	recorder := notify.NewRecorder()
	repos := repository.NewRepositories(db)
	svc := NewProcurementService(db, repos, recorder, zap.NewNop())
	return db, svc, recorder
}

func seedPurchaseRequest(t *testing.T, svc *ProcurementService, db *gorm.DB, description string) *entity.PurchaseRequest {
	t.Helper()
	user := testutil.SeedUser(t, db, uuid.New().String()[:32], "Ana", "Silva", "purchasing")
	material := testutil.SeedMaterial(t, db, "Steel plate "+description, 100)

	pr, err := svc.CreatePurchaseRequest(context.Background(), &CreatePurchaseRequestInput{
		Description: description,
		RequestedBy: user.ID,
		Items: []PurchaseRequestItemInput{
			{RawMaterialID: material.ID, Quantity: 40},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseRequest failed: %v", err)
	}
	return pr
}

func TestCreatePurchaseRequestUnknownRequester(t *testing.T) {
	_, svc, _ := setupProcurementTest(t)

	_, err := svc.CreatePurchaseRequest(context.Background(), &CreatePurchaseRequestInput{
		Description: "missing requester",
		RequestedBy: "nope",
		Items:       []PurchaseRequestItemInput{{RawMaterialID: "whatever", Quantity: 1}},
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateQuotationRequestTransitionsAndToken(t *testing.T) {
	db, svc, recorder := setupProcurementTest(t)
	ctx := context.Background()

	pr := seedPurchaseRequest(t, svc, db, "hinges for batch 42")
	supplier := testutil.SeedSupplier(t, db, "Ferragens Lda", "sales@ferragens.example")

	qr, err := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
	if err != nil {
		t.Fatalf("CreateQuotationRequest failed: %v", err)
	}

	if qr.Description != pr.Description {
		t.Errorf("quotation description = %q, want %q", qr.Description, pr.Description)
	}
	if qr.Status != entity.QuotationStatusIssued {
		t.Errorf("quotation status = %q, want issued", qr.Status)
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(qr.AccessToken) {
		t.Errorf("access token %q is not 64 hex chars", qr.AccessToken)
	}

	got, err := svc.GetPurchaseRequest(ctx, pr.ID)
	if err != nil {
		t.Fatalf("GetPurchaseRequest failed: %v", err)
	}
	if got.Status != entity.PurchaseStatusInQuotation {
		t.Errorf("purchase request status = %q, want in_quotation", got.Status)
	}

	// The supplier got exactly one invitation.
	msgs := recorder.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(msgs))
	}
	if msgs[0].Recipient != supplier.Email {
		t.Errorf("notification recipient = %q, want %q", msgs[0].Recipient, supplier.Email)
	}

	// A second quotation for the same request must be refused: it already
	// left the open state.
	if _, err := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second quotation, got %v", err)
	}
}

func TestAccessTokensUniqueAcrossQuotations(t *testing.T) {
	db, svc, _ := setupProcurementTest(t)
	ctx := context.Background()

	supplier := testutil.SeedSupplier(t, db, "Parafusos Gerais", "geral@parafusos.example")

	seen := make(map[string]struct{})
	for i := 0; i < 8; i++ {
		pr := seedPurchaseRequest(t, svc, db, fmt.Sprintf("lot %d restock", i))
		qr, err := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
		if err != nil {
			t.Fatalf("CreateQuotationRequest failed: %v", err)
		}
		if _, dup := seen[qr.AccessToken]; dup {
			t.Fatalf("duplicate access token minted: %s", qr.AccessToken)
		}
		seen[qr.AccessToken] = struct{}{}
	}
}

func TestCreateQuotationRequestNotifierFailureDoesNotRollBack(t *testing.T) {
	db, svc, recorder := setupProcurementTest(t)
	ctx := context.Background()

	pr := seedPurchaseRequest(t, svc, db, "gaskets for line 3")
	supplier := testutil.SeedSupplier(t, db, "Vedantes SA", "geral@vedantes.example")

	recorder.FailWith(errors.New("smtp down"))

	qr, err := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
	if err != nil {
		t.Fatalf("CreateQuotationRequest failed despite notifier error: %v", err)
	}
	if qr.Status != entity.QuotationStatusIssued {
		t.Errorf("quotation status = %q, want issued", qr.Status)
	}

	got, _ := svc.GetPurchaseRequest(ctx, pr.ID)
	if got.Status != entity.PurchaseStatusInQuotation {
		t.Errorf("purchase request status = %q, want in_quotation", got.Status)
	}
}

func TestGetQuotationForSupplierTokenAuth(t *testing.T) {
	db, svc, _ := setupProcurementTest(t)
	ctx := context.Background()

	pr := seedPurchaseRequest(t, svc, db, "bearings 608zz restock")
	supplier := testutil.SeedSupplier(t, db, "Rolamentos Norte", "norte@rolamentos.example")
	qr, err := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
	if err != nil {
		t.Fatalf("CreateQuotationRequest failed: %v", err)
	}

	view, err := svc.GetQuotationForSupplier(ctx, qr.ID, qr.AccessToken)
	if err != nil {
		t.Fatalf("GetQuotationForSupplier failed: %v", err)
	}
	if view.PurchaseRequest == nil || view.PurchaseRequest.ID != pr.ID {
		t.Errorf("expected purchase request %s resolved via description", pr.ID)
	}
	if len(view.Items) != 1 {
		t.Errorf("expected 1 request item, got %d", len(view.Items))
	}

	if _, err := svc.GetQuotationForSupplier(ctx, qr.ID, "wrong-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad token, got %v", err)
	}
	if _, err := svc.GetQuotationForSupplier(ctx, "no-such-id", qr.AccessToken); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown quotation, got %v", err)
	}
}

func TestAcceptBudgetFinalizesEverything(t *testing.T) {
	db, svc, _ := setupProcurementTest(t)
	ctx := context.Background()

	pr := seedPurchaseRequest(t, svc, db, "aluminium profiles")
	supplier := testutil.SeedSupplier(t, db, "Perfis e Cia", "perfis@cia.example")
	material := testutil.SeedMaterial(t, db, "Aluminium profile", 10)

	qr, err := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
	if err != nil {
		t.Fatalf("CreateQuotationRequest failed: %v", err)
	}

	cheap, err := svc.SubmitBudget(ctx, qr.ID, qr.AccessToken, &SubmitBudgetInput{
		Items: []BudgetItemInput{{RawMaterialID: material.ID, Quantity: 40, UnitPrice: 2.5}},
	})
	if err != nil {
		t.Fatalf("SubmitBudget failed: %v", err)
	}
	pricey, err := svc.SubmitBudget(ctx, qr.ID, qr.AccessToken, &SubmitBudgetInput{
		Items: []BudgetItemInput{{RawMaterialID: material.ID, Quantity: 40, UnitPrice: 9.0}},
	})
	if err != nil {
		t.Fatalf("SubmitBudget failed: %v", err)
	}

	note, err := svc.AcceptBudget(ctx, cheap.ID)
	if err != nil {
		t.Fatalf("AcceptBudget failed: %v", err)
	}

	// Total is frozen from the accepted budget's lines.
	if note.TotalValue != 100.0 {
		t.Errorf("order note total = %v, want 100.0", note.TotalValue)
	}
	if note.BudgetID != cheap.ID {
		t.Errorf("order note budget = %s, want %s", note.BudgetID, cheap.ID)
	}
	if note.Status != entity.OrderNoteStatusPending {
		t.Errorf("order note status = %q, want pending", note.Status)
	}

	accepted, _ := svc.GetBudget(ctx, cheap.ID)
	if accepted.Status != entity.BudgetStatusAccepted {
		t.Errorf("accepted budget status = %q", accepted.Status)
	}
	sibling, _ := svc.GetBudget(ctx, pricey.ID)
	if sibling.Status != entity.BudgetStatusRejected {
		t.Errorf("sibling budget status = %q, want rejected", sibling.Status)
	}

	finalized, _ := svc.GetQuotation(ctx, qr.ID)
	if finalized.Status != entity.QuotationStatusFinalized {
		t.Errorf("quotation status = %q, want finalized", finalized.Status)
	}

	closed, _ := svc.GetPurchaseRequest(ctx, pr.ID)
	if closed.Status != entity.PurchaseStatusClosed {
		t.Errorf("purchase request status = %q, want closed", closed.Status)
	}
	if closed.ClosedAt == nil {
		t.Error("purchase request closed_at not set")
	}

	// A sibling can never be accepted afterwards, and no second order note
	// appears.
	if _, err := svc.AcceptBudget(ctx, pricey.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState accepting rejected sibling, got %v", err)
	}
	var count int64
	db.Model(&entity.OrderNote{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 order note, got %d", count)
	}
}

func TestSubmitBudgetAfterFinalizeRefused(t *testing.T) {
	db, svc, _ := setupProcurementTest(t)
	ctx := context.Background()

	pr := seedPurchaseRequest(t, svc, db, "copper wire 2mm")
	supplier := testutil.SeedSupplier(t, db, "Cobre Lda", "cobre@lda.example")
	material := testutil.SeedMaterial(t, db, "Copper wire", 10)

	qr, _ := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
	b, _ := svc.SubmitBudget(ctx, qr.ID, qr.AccessToken, &SubmitBudgetInput{
		Items: []BudgetItemInput{{RawMaterialID: material.ID, Quantity: 10, UnitPrice: 1.0}},
	})
	if _, err := svc.AcceptBudget(ctx, b.ID); err != nil {
		t.Fatalf("AcceptBudget failed: %v", err)
	}

	_, err := svc.SubmitBudget(ctx, qr.ID, qr.AccessToken, &SubmitBudgetInput{
		Items: []BudgetItemInput{{RawMaterialID: material.ID, Quantity: 5, UnitPrice: 0.5}},
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on late budget, got %v", err)
	}
}

func TestSetOrderNoteStatusForwardOnly(t *testing.T) {
	db, svc, _ := setupProcurementTest(t)
	ctx := context.Background()

	pr := seedPurchaseRequest(t, svc, db, "rubber seals")
	supplier := testutil.SeedSupplier(t, db, "Selos SA", "selos@sa.example")
	material := testutil.SeedMaterial(t, db, "Rubber seal", 10)

	qr, _ := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
	b, _ := svc.SubmitBudget(ctx, qr.ID, qr.AccessToken, &SubmitBudgetInput{
		Items: []BudgetItemInput{{RawMaterialID: material.ID, Quantity: 1, UnitPrice: 3.0}},
	})
	note, err := svc.AcceptBudget(ctx, b.ID)
	if err != nil {
		t.Fatalf("AcceptBudget failed: %v", err)
	}

	if _, err := svc.SetOrderNoteStatus(ctx, note.ID, entity.OrderNoteStatusDelivered); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState skipping confirmed, got %v", err)
	}

	confirmed, err := svc.SetOrderNoteStatus(ctx, note.ID, entity.OrderNoteStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != entity.OrderNoteStatusConfirmed {
		t.Errorf("status = %q, want confirmed", confirmed.Status)
	}

	delivered, err := svc.SetOrderNoteStatus(ctx, note.ID, entity.OrderNoteStatusDelivered)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.Status != entity.OrderNoteStatusDelivered {
		t.Errorf("status = %q, want delivered", delivered.Status)
	}

	if _, err := svc.SetOrderNoteStatus(ctx, note.ID, entity.OrderNoteStatusPending); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState moving backwards, got %v", err)
	}
}
