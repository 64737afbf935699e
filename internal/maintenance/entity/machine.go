package entity

import "time"

// Machine is a piece of production equipment maintenance requests are filed
// against.
type Machine struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Code        string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Location    string    `json:"location" gorm:"size:200"`
	Description string    `json:"description" gorm:"size:500"`
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Machine) TableName() string {
	return "machines"
}
