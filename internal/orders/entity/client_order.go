package entity

import "time"

// ClientOrder is a customer order for finished products. The stock checker
// may flag it with stock_shortage; that flag is never cleared automatically.
type ClientOrder struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ClientID  string    `json:"client_id" gorm:"size:32;not null;index"`
	Status    string    `json:"status" gorm:"size:30;default:pending;index"`
	Notes     string    `json:"notes" gorm:"size:500"`
	PlacedAt  time.Time `json:"placed_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client *Client           `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Items  []ClientOrderItem `json:"items,omitempty" gorm:"foreignKey:ClientOrderID"`
}

func (ClientOrder) TableName() string {
	return "client_orders"
}

const (
	ClientOrderStatusPending       = "pending"
	ClientOrderStatusStockShortage = "stock_shortage"
	ClientOrderStatusInProduction  = "in_production"
	ClientOrderStatusCompleted     = "completed"
	ClientOrderStatusCancelled     = "cancelled"
)

// ClientOrderItem is one ordered product line.
type ClientOrderItem struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	ClientOrderID string    `json:"client_order_id" gorm:"size:32;not null;index"`
	ProductID     string    `json:"product_id" gorm:"size:32;not null"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (ClientOrderItem) TableName() string {
	return "client_order_items"
}
