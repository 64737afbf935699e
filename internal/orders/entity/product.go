package entity

import (
	"time"

	procurement "github.com/NunoCastro30/TechFlow/internal/procurement/entity"
)

// Product is a finished good assembled from raw materials according to its
// bill of materials.
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Code      string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Price     float64   `json:"price" gorm:"type:decimal(12,2)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Materials []ProductMaterial `json:"materials,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductMaterial is one bill-of-materials line: how many units of a raw
// material go into one unit of the product.
type ProductMaterial struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	ProductID     string    `json:"product_id" gorm:"size:32;not null;index:idx_product_material,unique"`
	RawMaterialID string    `json:"raw_material_id" gorm:"size:32;not null;index:idx_product_material,unique"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`

	RawMaterial *procurement.RawMaterial `json:"raw_material,omitempty" gorm:"foreignKey:RawMaterialID"`
}

func (ProductMaterial) TableName() string {
	return "product_materials"
}
