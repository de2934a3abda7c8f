package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository. Products are returned in insertion order.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	order    []string
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetProducts returns all products.
func (r *InMemoryProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	return r.GetProductsByCondition(ctx, ProductFilter{})
}

// GetProductsByCondition returns every product matching filter.
func (r *InMemoryProductRepository) GetProductsByCondition(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0)
	for _, id := range r.order {
		product := r.products[id]
		if filter.Matches(&product) {
			matched = append(matched, product)
		}
	}
	return matched, nil
}

// GetProductByCondition returns the first product matching filter, or nil.
func (r *InMemoryProductRepository) GetProductByCondition(ctx context.Context, filter ProductFilter) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		product := r.products[id]
		if filter.Matches(&product) {
			return &product, nil
		}
	}
	return nil, nil
}

// AddProduct stores a new product.
func (r *InMemoryProductRepository) AddProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; exists {
		return nil, fmt.Errorf("product with ID %s already exists", product.ID)
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)

	stored := *product
	return &stored, nil
}

// UpdateProduct overwrites the mutable fields of an existing product.
func (r *InMemoryProductRepository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return nil, nil
	}
	existing.Name = product.Name
	existing.UnitPrice = product.UnitPrice
	existing.QuantityInStock = product.QuantityInStock
	existing.Category = product.Category
	existing.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = existing

	return &existing, nil
}

// DeleteProduct removes a product by its ID.
func (r *InMemoryProductRepository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}
