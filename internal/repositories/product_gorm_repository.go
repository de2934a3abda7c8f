package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var filterColumns = map[Field]string{
	FieldID:       "id",
	FieldName:     "name",
	FieldCategory: "category",
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// GORMProductRepository is a GORM implementation of ProductRepository.
// Store errors are returned as gorm reports them.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetProducts retrieves all products in creation order.
func (r *GORMProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	return r.GetProductsByCondition(ctx, ProductFilter{})
}

// GetProductsByCondition retrieves every product matching filter.
func (r *GORMProductRepository) GetProductsByCondition(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query, err := r.query(ctx, filter)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductByCondition retrieves the first product matching filter, or nil.
func (r *GORMProductRepository) GetProductByCondition(ctx context.Context, filter ProductFilter) (*models.Product, error) {
	query, err := r.query(ctx, filter)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := query.Take(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// AddProduct inserts a new product row.
func (r *GORMProductRepository) AddProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct re-reads the row and overwrites its mutable fields. It
// returns nil when no row has product.ID.
func (r *GORMProductRepository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	existing, err := r.GetProductByCondition(ctx, ByID(product.ID))
	if err != nil || existing == nil {
		return nil, err
	}

	existing.Name = product.Name
	existing.UnitPrice = product.UnitPrice
	existing.QuantityInStock = product.QuantityInStock
	existing.Category = product.Category

	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteProduct deletes a product by its ID.
func (r *GORMProductRepository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMProductRepository) query(ctx context.Context, filter ProductFilter) (*gorm.DB, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	for _, c := range filter.Conditions {
		column, ok := filterColumns[c.Field]
		if !ok {
			return nil, fmt.Errorf("%w: field %q", ErrUnsupportedCondition, c.Field)
		}
		switch c.Operator {
		case OpEquals:
			query = query.Where(column+" = ?", c.Value)
		case OpContains:
			// Both sides fold through the store's LOWER.
			pattern := "%" + likeEscaper.Replace(c.Value) + "%"
			query = query.Where("LOWER("+column+") LIKE LOWER(?) ESCAPE '!'", pattern)
		default:
			return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedCondition, c.Operator)
		}
	}
	return query.Order("created_at").Order("id"), nil
}
