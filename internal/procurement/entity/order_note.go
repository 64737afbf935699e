package entity

import "time"

// OrderNote is the confirmation document generated exactly once when a budget
// is accepted. TotalValue is frozen at acceptance time and never recomputed.
type OrderNote struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	BudgetID   string    `json:"budget_id" gorm:"size:32;uniqueIndex;not null"`
	Status     string    `json:"status" gorm:"size:20;default:pending"`
	TotalValue float64   `json:"total_value" gorm:"type:decimal(15,2);not null"`
	IssuedAt   time.Time `json:"issued_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Items []OrderNoteItem `json:"items,omitempty" gorm:"foreignKey:OrderNoteID"`
}

func (OrderNote) TableName() string {
	return "order_notes"
}

const (
	OrderNoteStatusPending   = "pending"
	OrderNoteStatusConfirmed = "confirmed"
	OrderNoteStatusDelivered = "delivered"
)

// OrderNoteItem snapshots one accepted budget line, including the price it
// was accepted at.
type OrderNoteItem struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	OrderNoteID   string    `json:"order_note_id" gorm:"size:32;not null;index"`
	RawMaterialID string    `json:"raw_material_id" gorm:"size:32;not null"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	UnitPrice     float64   `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	CreatedAt     time.Time `json:"created_at"`

	RawMaterial *RawMaterial `json:"raw_material,omitempty" gorm:"foreignKey:RawMaterialID"`
}

func (OrderNoteItem) TableName() string {
	return "order_note_items"
}
