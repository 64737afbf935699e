package handler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/NunoCastro30/TechFlow/internal/procurement/service"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/NunoCastro30/TechFlow/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProcurementHandlerTest(t *testing.T) (*gorm.DB, *gin.Engine, *service.ProcurementService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := service.NewProcurementService(db, repos, notify.NewRecorder(), zap.NewNop())

	r := testutil.SetupRouter()
	NewProcurementHandler(svc).RegisterRoutes(r.Group("/api/v1"), testutil.JWTSecret)
	return db, r, svc
}

func seedQuotation(t *testing.T, db *gorm.DB, svc *service.ProcurementService) *entity.QuotationRequest {
	t.Helper()
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "buyer-001", "Rui", "Costa", "purchasing")
	material := testutil.SeedMaterial(t, db, "Brass fitting", 100)
	supplier := testutil.SeedSupplier(t, db, "Latao e Filhos", "geral@latao.example")

	pr, err := svc.CreatePurchaseRequest(ctx, &service.CreatePurchaseRequestInput{
		Description: "brass fittings restock",
		RequestedBy: user.ID,
		Items:       []service.PurchaseRequestItemInput{{RawMaterialID: material.ID, Quantity: 50}},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseRequest failed: %v", err)
	}

	qr, err := svc.CreateQuotationRequest(ctx, pr.ID, supplier.ID)
	if err != nil {
		t.Fatalf("CreateQuotationRequest failed: %v", err)
	}
	return qr
}

func TestCreateQuotationReturnsAccessToken(t *testing.T) {
	db, r, svc := setupProcurementHandlerTest(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "buyer-002", "Ines", "Matos", "purchasing")
	material := testutil.SeedMaterial(t, db, "Steel rod", 100)
	supplier := testutil.SeedSupplier(t, db, "Acos do Norte", "acos@norte.example")

	pr, err := svc.CreatePurchaseRequest(ctx, &service.CreatePurchaseRequestInput{
		Description: "steel rods restock",
		RequestedBy: user.ID,
		Items:       []service.PurchaseRequestItemInput{{RawMaterialID: material.ID, Quantity: 30}},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseRequest failed: %v", err)
	}

	body := map[string]interface{}{"supplier_id": supplier.ID}
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/purchase-requests/"+pr.ID+"/quotations", body, testutil.DefaultTestToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data, _ := resp["data"].(map[string]interface{})
	token, _ := data["access_token"].(string)
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(token) {
		t.Fatalf("access_token = %q, want 64 hex chars in creation response", token)
	}
	quotationID, _ := data["quotation_request_id"].(string)
	if quotationID == "" {
		t.Fatal("quotation_request_id missing from creation response")
	}

	// The token works against the supplier surface, and no other route
	// leaks it.
	w = testutil.DoRequest(r, http.MethodGet, "/api/v1/quotations/"+quotationID+"/supplier?token="+token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("supplier view with created token: status = %d, body: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(r, http.MethodGet, "/api/v1/quotations/"+quotationID, nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("quotation detail: status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), token) {
		t.Error("quotation detail response leaks the access token")
	}
}

func TestGetQuotationForSupplierWithToken(t *testing.T) {
	db, r, svc := setupProcurementHandlerTest(t)
	qr := seedQuotation(t, db, svc)

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/quotations/"+qr.ID+"/supplier?token="+qr.AccessToken, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing data envelope: %v", resp)
	}
	if data["purchase_request"] == nil {
		t.Error("expected resolved purchase request in supplier view")
	}
	items, _ := data["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("expected 1 request item, got %d", len(items))
	}
}

func TestGetQuotationForSupplierWrongToken(t *testing.T) {
	db, r, svc := setupProcurementHandlerTest(t)
	qr := seedQuotation(t, db, svc)

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/quotations/"+qr.ID+"/supplier?token=bogus", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body: %s", w.Code, w.Body.String())
	}
}

func TestGetQuotationForSupplierNotFound(t *testing.T) {
	_, r, _ := setupProcurementHandlerTest(t)

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/quotations/missing/supplier?token=x", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body: %s", w.Code, w.Body.String())
	}
}

func TestSubmitBudgetOverHTTP(t *testing.T) {
	db, r, svc := setupProcurementHandlerTest(t)
	qr := seedQuotation(t, db, svc)

	material := testutil.SeedMaterial(t, db, "Brass elbow", 100)
	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"raw_material_id": material.ID, "quantity": 50, "unit_price": 1.25},
		},
	}

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/quotations/"+qr.ID+"/budgets?token="+qr.AccessToken, body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data, _ := resp["data"].(map[string]interface{})
	if data["status"] != "submitted" {
		t.Errorf("budget status = %v, want submitted", data["status"])
	}
}

func TestAcceptBudgetRequiresRole(t *testing.T) {
	db, r, svc := setupProcurementHandlerTest(t)
	qr := seedQuotation(t, db, svc)

	material := testutil.SeedMaterial(t, db, "Brass tee", 100)
	budget, err := svc.SubmitBudget(context.Background(), qr.ID, qr.AccessToken, &service.SubmitBudgetInput{
		Items: []service.BudgetItemInput{{RawMaterialID: material.ID, Quantity: 10, UnitPrice: 2.0}},
	})
	if err != nil {
		t.Fatalf("SubmitBudget failed: %v", err)
	}

	operator := testutil.GenerateTestToken("op-001", "Shop Floor", "production")
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/budgets/"+budget.ID+"/accept", nil, operator)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for production role, body: %s", w.Code, w.Body.String())
	}

	manager := testutil.GenerateTestToken("mgr-001", "Plant Manager", "manager")
	w = testutil.DoRequest(r, http.MethodPost, "/api/v1/budgets/"+budget.ID+"/accept", nil, manager)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for manager, body: %s", w.Code, w.Body.String())
	}
}
