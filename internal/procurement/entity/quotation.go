package entity

import "time"

// QuotationRequest invites one supplier to price a purchase request. The
// access token is the supplier's only credential for viewing and answering
// the quotation; it is minted once and never reissued.
type QuotationRequest struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Description string    `json:"description" gorm:"size:500;not null"`
	Status      string    `json:"status" gorm:"size:20;default:issued"`
	SupplierID  string    `json:"supplier_id" gorm:"size:32;not null;index"`
	AccessToken string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Budgets []Budget `json:"budgets,omitempty" gorm:"foreignKey:QuotationRequestID"`
}

func (QuotationRequest) TableName() string {
	return "quotation_requests"
}

const (
	QuotationStatusIssued    = "issued"
	QuotationStatusFinalized = "finalized"
)

// Budget is a supplier's priced response to a quotation request. At most one
// budget per quotation request ever reaches accepted; acceptance rejects all
// siblings.
type Budget struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:32"`
	QuotationRequestID string    `json:"quotation_request_id" gorm:"size:32;not null;index"`
	Status             string    `json:"status" gorm:"size:20;default:submitted"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Items []BudgetItem `json:"items,omitempty" gorm:"foreignKey:BudgetID"`
}

func (Budget) TableName() string {
	return "budgets"
}

const (
	BudgetStatusSubmitted = "submitted"
	BudgetStatusAccepted  = "accepted"
	BudgetStatusRejected  = "rejected"
)

// BudgetItem is one priced line of a budget. Lines are free-form relative to
// the originating purchase request; nothing forces them to match.
type BudgetItem struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	BudgetID      string    `json:"budget_id" gorm:"size:32;not null;index"`
	RawMaterialID string    `json:"raw_material_id" gorm:"size:32;not null"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	UnitPrice     float64   `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	LeadTimeDays  *int      `json:"lead_time_days"`
	CreatedAt     time.Time `json:"created_at"`

	RawMaterial *RawMaterial `json:"raw_material,omitempty" gorm:"foreignKey:RawMaterialID"`
}

func (BudgetItem) TableName() string {
	return "budget_items"
}
