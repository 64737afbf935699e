package entity

import "time"

// PurchaseRequest is an internal request to acquire raw materials, the origin
// of the procurement pipeline. Status only ever moves forward:
// open -> in_quotation -> closed.
type PurchaseRequest struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Description string     `json:"description" gorm:"size:500;not null"`
	Status      string     `json:"status" gorm:"size:20;default:open;index"`
	OpenedAt    time.Time  `json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	RequestedBy string     `json:"requested_by" gorm:"size:32;not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Items []PurchaseRequestItem `json:"items,omitempty" gorm:"foreignKey:PurchaseRequestID"`
}

func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

const (
	PurchaseStatusOpen        = "open"
	PurchaseStatusInQuotation = "in_quotation"
	PurchaseStatusClosed      = "closed"
)

// PurchaseRequestItem is one requested raw material line. Immutable after
// creation.
type PurchaseRequestItem struct {
	ID                string    `json:"id" gorm:"primaryKey;size:32"`
	PurchaseRequestID string    `json:"purchase_request_id" gorm:"size:32;not null;index"`
	RawMaterialID     string    `json:"raw_material_id" gorm:"size:32;not null"`
	Quantity          int       `json:"quantity" gorm:"not null"`
	SortOrder         int       `json:"sort_order" gorm:"default:0"`
	CreatedAt         time.Time `json:"created_at"`

	RawMaterial *RawMaterial `json:"raw_material,omitempty" gorm:"foreignKey:RawMaterialID"`
}

func (PurchaseRequestItem) TableName() string {
	return "purchase_request_items"
}
