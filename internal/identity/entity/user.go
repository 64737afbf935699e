package entity

import "time"

// User is an internal operator (requester, maintenance technician, manager).
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	StaffNumber  int       `json:"staff_number" gorm:"uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"size:100;not null"`
	LastName     string    `json:"last_name" gorm:"size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	Role         string    `json:"role" gorm:"size:50;not null"`
	Department   string    `json:"department" gorm:"size:100"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Roles mirror the departments that operate the back office.
const (
	RoleAdmin       = "admin"
	RoleManager     = "manager"
	RolePurchasing  = "purchasing"
	RoleProduction  = "production"
	RoleMaintenance = "maintenance"
)
