package models

import "time"

// Product represents a catalog product row.
type Product struct {
	ID              string    `json:"productID" gorm:"primaryKey;type:varchar(36)"`
	Name            string    `json:"productName" gorm:"type:varchar(255);not null"`
	Category        Category  `json:"category" gorm:"type:varchar(50);not null"`
	UnitPrice       float64   `json:"unitPrice" gorm:"not null"`
	QuantityInStock int       `json:"quantityInStock" gorm:"not null"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// TableName pins the table name regardless of naming strategy.
func (Product) TableName() string {
	return "products"
}
