package dto

import (
	"time"

	"catalog/internal/models"
)

// ProductAddRequest is the body of a create request.
type ProductAddRequest struct {
	ProductName     string          `json:"productName" validate:"notblank"`
	Category        models.Category `json:"category" validate:"category"`
	UnitPrice       float64         `json:"unitPrice" validate:"unitprice"`
	QuantityInStock int             `json:"quantityInStock" validate:"gte=1,lte=2147483647"`
}

// ProductUpdateRequest is the body of an update request. ProductID must
// reference an existing product.
type ProductUpdateRequest struct {
	ProductID       string          `json:"productID" validate:"required"`
	ProductName     string          `json:"productName" validate:"notblank"`
	Category        models.Category `json:"category" validate:"category"`
	UnitPrice       float64         `json:"unitPrice" validate:"unitprice"`
	QuantityInStock int             `json:"quantityInStock" validate:"gte=1,lte=2147483647"`
}

// ProductResponse is what the API returns for a stored product.
type ProductResponse struct {
	ProductID       string          `json:"productID"`
	ProductName     string          `json:"productName"`
	Category        models.Category `json:"category"`
	UnitPrice       float64         `json:"unitPrice"`
	QuantityInStock int             `json:"quantityInStock"`
}

// Product event types.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// ProductEvent is published after a successful mutation. Product is nil for
// deletions.
type ProductEvent struct {
	Type       string           `json:"type"`
	ProductID  string           `json:"productID"`
	Product    *ProductResponse `json:"product,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}
