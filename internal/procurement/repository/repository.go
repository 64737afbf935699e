package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Repositories bundles the procurement data access layer.
type Repositories struct {
	PurchaseRequest *PurchaseRequestRepository
	Quotation       *QuotationRepository
	Budget          *BudgetRepository
	OrderNote       *OrderNoteRepository
	Supplier        *SupplierRepository
	RawMaterial     *RawMaterialRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		PurchaseRequest: NewPurchaseRequestRepository(db),
		Quotation:       NewQuotationRepository(db),
		Budget:          NewBudgetRepository(db),
		OrderNote:       NewOrderNoteRepository(db),
		Supplier:        NewSupplierRepository(db),
		RawMaterial:     NewRawMaterialRepository(db),
	}
}
