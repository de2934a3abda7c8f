package mappers_test

import (
	"math"
	"testing"

	"catalog/internal/dto"
	"catalog/internal/mappers"
	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProductFromAddRequest(t *testing.T) {
	product := mappers.ToProductFromAddRequest(dto.ProductAddRequest{
		ProductName:     "Desk",
		Category:        models.CategoryFurniture,
		UnitPrice:       249.99,
		QuantityInStock: 3,
	})

	assert.Equal(t, models.Product{
		Name:            "Desk",
		Category:        models.CategoryFurniture,
		UnitPrice:       249.99,
		QuantityInStock: 3,
	}, product)
}

func TestToProductFromUpdateRequest(t *testing.T) {
	product := mappers.ToProductFromUpdateRequest(dto.ProductUpdateRequest{
		ProductID:       "abc",
		ProductName:     "Desk",
		Category:        models.CategoryFurniture,
		UnitPrice:       199,
		QuantityInStock: 4,
	})

	assert.Equal(t, "abc", product.ID)
	assert.Equal(t, "Desk", product.Name)
	assert.Equal(t, models.CategoryFurniture, product.Category)
	assert.Equal(t, 199.0, product.UnitPrice)
	assert.Equal(t, 4, product.QuantityInStock)
}

func TestToProductResponse(t *testing.T) {
	assert.Nil(t, mappers.ToProductResponse(nil))

	// Extreme values survive without loss.
	product := &models.Product{
		ID:              "id-1",
		Name:            "Lamp",
		Category:        models.CategoryHomeAppliances,
		UnitPrice:       math.MaxFloat64,
		QuantityInStock: math.MaxInt32,
	}
	response := mappers.ToProductResponse(product)
	require.NotNil(t, response)
	assert.Equal(t, &dto.ProductResponse{
		ProductID:       "id-1",
		ProductName:     "Lamp",
		Category:        models.CategoryHomeAppliances,
		UnitPrice:       math.MaxFloat64,
		QuantityInStock: math.MaxInt32,
	}, response)
}

func TestToProductResponseList(t *testing.T) {
	empty := mappers.ToProductResponseList(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	products := []models.Product{
		{ID: "b", Name: "Second"},
		{ID: "a", Name: "First"},
		{ID: "b", Name: "Second"},
	}
	responses := mappers.ToProductResponseList(products)
	require.Len(t, responses, 3)
	assert.Equal(t, "b", responses[0].ProductID)
	assert.Equal(t, "a", responses[1].ProductID)
	assert.Equal(t, "b", responses[2].ProductID)
}
