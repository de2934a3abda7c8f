package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

// ErrUnsupportedCondition is returned when a filter names a field or
// operator the store cannot translate.
var ErrUnsupportedCondition = errors.New("unsupported filter condition")

// ProductRepository defines the interface for product data access.
//
// Lookups that find nothing return a nil product and a nil error; errors are
// reserved for store faults.
type ProductRepository interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductsByCondition(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetProductByCondition(ctx context.Context, filter ProductFilter) (*models.Product, error)
	// AddProduct assigns a new identifier when product.ID is empty.
	AddProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// UpdateProduct overwrites the mutable fields of the row with product.ID.
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// DeleteProduct reports whether at least one row was removed.
	DeleteProduct(ctx context.Context, id string) (bool, error)
}
