package entity

import "time"

// Supplier is an external party that answers quotation requests.
type Supplier struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Code      string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Email     string    `json:"email" gorm:"size:200"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Address   string    `json:"address" gorm:"size:500"`
	TaxID     string    `json:"tax_id" gorm:"size:50"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
