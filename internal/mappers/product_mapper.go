// Package mappers converts between request, entity and response shapes.
// Every field is copied explicitly so a new field shows up as a compile-time
// or test failure instead of being silently dropped.
package mappers

import (
	"catalog/internal/dto"
	"catalog/internal/models"
)

// ToProductFromAddRequest builds an entity without an ID; the repository
// assigns one on insert.
func ToProductFromAddRequest(req dto.ProductAddRequest) models.Product {
	return models.Product{
		Name:            req.ProductName,
		Category:        req.Category,
		UnitPrice:       req.UnitPrice,
		QuantityInStock: req.QuantityInStock,
	}
}

// ToProductFromUpdateRequest builds an entity carrying the request's ID.
func ToProductFromUpdateRequest(req dto.ProductUpdateRequest) models.Product {
	return models.Product{
		ID:              req.ProductID,
		Name:            req.ProductName,
		Category:        req.Category,
		UnitPrice:       req.UnitPrice,
		QuantityInStock: req.QuantityInStock,
	}
}

// ToProductResponse maps a stored product. A nil product maps to nil.
func ToProductResponse(p *models.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ProductID:       p.ID,
		ProductName:     p.Name,
		Category:        p.Category,
		UnitPrice:       p.UnitPrice,
		QuantityInStock: p.QuantityInStock,
	}
}

// ToProductResponseList maps element-wise, preserving order. The result is
// never nil.
func ToProductResponseList(products []models.Product) []dto.ProductResponse {
	responses := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *ToProductResponse(&products[i]))
	}
	return responses
}
