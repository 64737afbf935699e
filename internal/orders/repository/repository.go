package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Repositories bundles the order-side data access for wiring.
type Repositories struct {
	Client      *ClientRepository
	Product     *ProductRepository
	ClientOrder *ClientOrderRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Client:      NewClientRepository(db),
		Product:     NewProductRepository(db),
		ClientOrder: NewClientOrderRepository(db),
	}
}
