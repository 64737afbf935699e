package entity

import "time"

// RawMaterial is a stocked input. Quantity is mutated by inventory and
// production flows; the stock monitor watches it cross the critical
// threshold.
type RawMaterial struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Code      string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Category  string    `json:"category" gorm:"size:100"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(12,4)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RawMaterial) TableName() string {
	return "raw_materials"
}
