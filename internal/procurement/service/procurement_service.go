package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	identityentity "github.com/NunoCastro30/TechFlow/internal/identity/entity"
	"github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProcurementService drives the purchase request -> quotation -> budget ->
// order note pipeline. State transitions run inside database transactions
// with row locks so concurrent callers cannot double-advance a request or
// accept two budgets for the same quotation.
type ProcurementService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewProcurementService(db *gorm.DB, repos *repository.Repositories, notifier notify.Notifier, logger *zap.Logger) *ProcurementService {
	return &ProcurementService{db: db, repos: repos, notifier: notifier, logger: logger}
}

type PurchaseRequestItemInput struct {
	RawMaterialID string `json:"raw_material_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
}

type CreatePurchaseRequestInput struct {
	Description string                     `json:"description" binding:"required"`
	RequestedBy string                     `json:"requested_by" binding:"required"`
	Items       []PurchaseRequestItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchaseRequest opens a new request. The requester and every
// referenced raw material must exist.
func (s *ProcurementService) CreatePurchaseRequest(ctx context.Context, in *CreatePurchaseRequestInput) (*entity.PurchaseRequest, error) {
	var requester identityentity.User
	if err := s.db.WithContext(ctx).Where("id = ?", in.RequestedBy).First(&requester).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("requester %s: %w", in.RequestedBy, repository.ErrNotFound)
		}
		return nil, err
	}

	for _, item := range in.Items {
		if _, err := s.repos.RawMaterial.FindByID(ctx, item.RawMaterialID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("raw material %s: %w", item.RawMaterialID, repository.ErrNotFound)
			}
			return nil, err
		}
	}

	pr := &entity.PurchaseRequest{
		ID:          uuid.New().String()[:32],
		Description: in.Description,
		Status:      entity.PurchaseStatusOpen,
		OpenedAt:    time.Now(),
		RequestedBy: in.RequestedBy,
	}
	for i, item := range in.Items {
		pr.Items = append(pr.Items, entity.PurchaseRequestItem{
			ID:                uuid.New().String()[:32],
			PurchaseRequestID: pr.ID,
			RawMaterialID:     item.RawMaterialID,
			Quantity:          item.Quantity,
			SortOrder:         i,
		})
	}

	if err := s.repos.PurchaseRequest.Create(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (s *ProcurementService) ListPurchaseRequests(ctx context.Context, status string, page, pageSize int) ([]entity.PurchaseRequest, int64, error) {
	return s.repos.PurchaseRequest.FindAll(ctx, status, page, pageSize)
}

func (s *ProcurementService) GetPurchaseRequest(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return s.repos.PurchaseRequest.FindByID(ctx, id)
}

// CreateQuotationRequest moves an open purchase request into quotation and
// issues a tokenized quotation for one supplier. The purchase request row is
// locked for the duration of the transaction, so two concurrent calls cannot
// both see it open.
func (s *ProcurementService) CreateQuotationRequest(ctx context.Context, purchaseRequestID, supplierID string) (*entity.QuotationRequest, error) {
	supplier, err := s.repos.Supplier.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	token, err := newAccessToken()
	if err != nil {
		return nil, err
	}

	var qr *entity.QuotationRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pr entity.PurchaseRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", purchaseRequestID).
			First(&pr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}

		if pr.Status != entity.PurchaseStatusOpen {
			return fmt.Errorf("purchase request is %s: %w", pr.Status, ErrInvalidState)
		}

		pr.Status = entity.PurchaseStatusInQuotation
		if err := tx.Save(&pr).Error; err != nil {
			return err
		}

		qr = &entity.QuotationRequest{
			ID:          uuid.New().String()[:32],
			Description: pr.Description,
			Status:      entity.QuotationStatusIssued,
			SupplierID:  supplier.ID,
			AccessToken: token,
		}
		return tx.Create(qr).Error
	})
	if err != nil {
		return nil, err
	}

	// Best effort after commit; a lost email never undoes the transition.
	subject := "Quotation Request - " + qr.Description
	body := fmt.Sprintf("Dear %s,\n\nA quotation has been requested: %s\nQuotation ID: %s\nAccess token: %s\n\nPlease submit your budget.",
		supplier.Name, qr.Description, qr.ID, token)
	if err := s.notifier.Deliver(ctx, supplier.Email, subject, body); err != nil {
		s.logger.Warn("Failed to notify supplier of quotation request",
			zap.String("quotation_request_id", qr.ID),
			zap.String("supplier_id", supplier.ID),
			zap.Error(err),
		)
	}

	return qr, nil
}

func (s *ProcurementService) GetQuotation(ctx context.Context, id string) (*entity.QuotationRequest, error) {
	return s.repos.Quotation.FindByID(ctx, id)
}

func (s *ProcurementService) ListQuotationsBySupplier(ctx context.Context, supplierID string) ([]entity.QuotationRequest, error) {
	return s.repos.Quotation.FindBySupplier(ctx, supplierID)
}

// SupplierQuotationView is what a supplier sees when presenting a valid
// access token: the quotation plus the originating request's lines, resolved
// through the shared description.
type SupplierQuotationView struct {
	Quotation       *entity.QuotationRequest     `json:"quotation"`
	PurchaseRequest *entity.PurchaseRequest      `json:"purchase_request,omitempty"`
	Items           []entity.PurchaseRequestItem `json:"items"`
}

// GetQuotationForSupplier authenticates by access token. The purchase request
// is resolved by description; when several share one description the newest
// wins, and a missing match leaves the item list empty rather than failing.
func (s *ProcurementService) GetQuotationForSupplier(ctx context.Context, quotationID, token string) (*SupplierQuotationView, error) {
	qr, err := s.repos.Quotation.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(qr.AccessToken), []byte(token)) != 1 {
		return nil, ErrUnauthorized
	}

	view := &SupplierQuotationView{Quotation: qr}
	pr, err := s.repos.PurchaseRequest.FindNewestByDescription(ctx, qr.Description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view, nil
		}
		return nil, err
	}
	view.PurchaseRequest = pr
	view.Items = pr.Items
	return view, nil
}

type BudgetItemInput struct {
	RawMaterialID string  `json:"raw_material_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice     float64 `json:"unit_price" binding:"required,gt=0"`
	LeadTimeDays  *int    `json:"lead_time_days"`
}

type SubmitBudgetInput struct {
	Items []BudgetItemInput `json:"items" binding:"required,min=1,dive"`
}

// SubmitBudget records a supplier's priced answer. Multiple budgets per
// quotation are allowed while it stays issued; a finalized quotation accepts
// no more.
func (s *ProcurementService) SubmitBudget(ctx context.Context, quotationID, token string, in *SubmitBudgetInput) (*entity.Budget, error) {
	qr, err := s.repos.Quotation.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(qr.AccessToken), []byte(token)) != 1 {
		return nil, ErrUnauthorized
	}

	if qr.Status != entity.QuotationStatusIssued {
		return nil, fmt.Errorf("quotation is %s: %w", qr.Status, ErrInvalidState)
	}

	budget := &entity.Budget{
		ID:                 uuid.New().String()[:32],
		QuotationRequestID: qr.ID,
		Status:             entity.BudgetStatusSubmitted,
	}
	for _, item := range in.Items {
		budget.Items = append(budget.Items, entity.BudgetItem{
			ID:            uuid.New().String()[:32],
			BudgetID:      budget.ID,
			RawMaterialID: item.RawMaterialID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			LeadTimeDays:  item.LeadTimeDays,
		})
	}

	if err := s.repos.Budget.Create(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *ProcurementService) GetBudget(ctx context.Context, id string) (*entity.Budget, error) {
	return s.repos.Budget.FindByID(ctx, id)
}

// AcceptBudget finalizes a quotation in one transaction: the chosen budget is
// accepted, every sibling is rejected, the originating purchase request (if
// still resolvable) is closed, and an order note with a frozen total is
// created. The quotation row is locked so a concurrent accept of a sibling
// serializes behind this one and then fails the status re-check.
func (s *ProcurementService) AcceptBudget(ctx context.Context, budgetID string) (*entity.OrderNote, error) {
	var note *entity.OrderNote

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var budget entity.Budget
		if err := tx.Where("id = ?", budgetID).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}

		var qr entity.QuotationRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", budget.QuotationRequestID).
			First(&qr).Error; err != nil {
			return err
		}

		// Re-read under the lock: a concurrent accept on a sibling budget
		// will have flipped this one to rejected before we got here.
		if err := tx.Preload("Items").Where("id = ?", budget.ID).First(&budget).Error; err != nil {
			return err
		}
		if budget.Status != entity.BudgetStatusSubmitted {
			return fmt.Errorf("budget is %s: %w", budget.Status, ErrInvalidState)
		}

		if err := tx.Model(&entity.Budget{}).
			Where("quotation_request_id = ? AND id <> ?", qr.ID, budget.ID).
			Update("status", entity.BudgetStatusRejected).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Budget{}).
			Where("id = ?", budget.ID).
			Update("status", entity.BudgetStatusAccepted).Error; err != nil {
			return err
		}

		qr.Status = entity.QuotationStatusFinalized
		if err := tx.Save(&qr).Error; err != nil {
			return err
		}

		// Close the originating request if the description still resolves.
		var pr entity.PurchaseRequest
		err := tx.Where("description = ? AND status = ?", qr.Description, entity.PurchaseStatusInQuotation).
			Order("opened_at DESC").
			First(&pr).Error
		switch {
		case err == nil:
			now := time.Now()
			pr.Status = entity.PurchaseStatusClosed
			pr.ClosedAt = &now
			if err := tx.Save(&pr).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Orphaned quotation: accept anyway, nothing to close.
		default:
			return err
		}

		var total float64
		note = &entity.OrderNote{
			ID:       uuid.New().String()[:32],
			BudgetID: budget.ID,
			Status:   entity.OrderNoteStatusPending,
			IssuedAt: time.Now(),
		}
		for _, item := range budget.Items {
			total += float64(item.Quantity) * item.UnitPrice
			note.Items = append(note.Items, entity.OrderNoteItem{
				ID:            uuid.New().String()[:32],
				OrderNoteID:   note.ID,
				RawMaterialID: item.RawMaterialID,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
			})
		}
		note.TotalValue = total

		return tx.Create(note).Error
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *ProcurementService) GetOrderNote(ctx context.Context, id string) (*entity.OrderNote, error) {
	return s.repos.OrderNote.FindByID(ctx, id)
}

func (s *ProcurementService) ListOrderNotes(ctx context.Context, page, pageSize int) ([]entity.OrderNote, int64, error) {
	return s.repos.OrderNote.FindAll(ctx, page, pageSize)
}

// SetOrderNoteStatus advances an order note. Forward only:
// pending -> confirmed -> delivered.
func (s *ProcurementService) SetOrderNoteStatus(ctx context.Context, id, status string) (*entity.OrderNote, error) {
	note, err := s.repos.OrderNote.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := map[string]string{
		entity.OrderNoteStatusPending:   entity.OrderNoteStatusConfirmed,
		entity.OrderNoteStatusConfirmed: entity.OrderNoteStatusDelivered,
	}
	if next, ok := allowed[note.Status]; !ok || next != status {
		return nil, fmt.Errorf("order note is %s, cannot move to %s: %w", note.Status, status, ErrInvalidState)
	}

	note.Status = status
	if err := s.repos.OrderNote.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// newAccessToken mints 32 random bytes as 64 hex characters.
func newAccessToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
