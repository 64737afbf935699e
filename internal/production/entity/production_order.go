package entity

import (
	"time"

	orders "github.com/NunoCastro30/TechFlow/internal/orders/entity"
)

// ProductionOrder schedules the manufacture of a product quantity, usually
// against a client order.
type ProductionOrder struct {
	ID            string     `json:"id" gorm:"primaryKey;size:32"`
	ProductID     string     `json:"product_id" gorm:"size:32;not null;index"`
	ClientOrderID *string    `json:"client_order_id" gorm:"size:32;index"`
	Quantity      int        `json:"quantity" gorm:"not null"`
	Status        string     `json:"status" gorm:"size:20;default:pending;index"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Product *orders.Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Records []ProductionRecord `json:"records,omitempty" gorm:"foreignKey:ProductionOrderID"`
}

func (ProductionOrder) TableName() string {
	return "production_orders"
}

const (
	ProductionStatusPending    = "pending"
	ProductionStatusInProgress = "in_progress"
	ProductionStatusCompleted  = "completed"
	ProductionStatusCancelled  = "cancelled"
)

// ProductionRecord is one finished batch. Completing a record consumes raw
// materials according to the product's bill of materials.
type ProductionRecord struct {
	ID                string    `json:"id" gorm:"primaryKey;size:32"`
	ProductionOrderID string    `json:"production_order_id" gorm:"size:32;not null;index"`
	Quantity          int       `json:"quantity" gorm:"not null"`
	RecordedBy        string    `json:"recorded_by" gorm:"size:32;not null"`
	RecordedAt        time.Time `json:"recorded_at"`
	CreatedAt         time.Time `json:"created_at"`
}

func (ProductionRecord) TableName() string {
	return "production_records"
}
