// Package validators holds the field rules for product requests.
package validators

import (
	"errors"
	"fmt"
	"math"

	"catalog/internal/dto"
	"catalog/internal/models"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

// Rule messages, keyed by request field.
var (
	MsgProductIDBlank   = "ProductID can't be blank"
	MsgProductNameBlank = "Product Name can't be blank"
	MsgInvalidCategory  = "Invalid Category"
	MsgUnitPriceRange   = fmt.Sprintf("UnitPrice must be between 0 and %v", math.MaxFloat64)
	MsgQuantityRange    = fmt.Sprintf("QuantityInStock must be between 1 and %d", math.MaxInt32)
)

var fieldMessages = map[string]string{
	"ProductID":       MsgProductIDBlank,
	"ProductName":     MsgProductNameBlank,
	"Category":        MsgInvalidCategory,
	"UnitPrice":       MsgUnitPriceRange,
	"QuantityInStock": MsgQuantityRange,
}

// FieldError is a single rule violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationResult is the ordered outcome of validating one request.
type ValidationResult struct {
	Errors []FieldError
}

// IsValid reports whether no rule was violated.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Messages returns the violation messages in field order.
func (r ValidationResult) Messages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, e.Message)
	}
	return messages
}

// ByField groups messages by field name, keeping their order.
func (r ValidationResult) ByField() map[string][]string {
	grouped := make(map[string][]string, len(r.Errors))
	for _, e := range r.Errors {
		grouped[e.Field] = append(grouped[e.Field], e.Message)
	}
	return grouped
}

// ProductAddRequestValidator checks create requests.
type ProductAddRequestValidator struct {
	validate *validator.Validate
}

// NewProductAddRequestValidator creates a new ProductAddRequestValidator.
func NewProductAddRequestValidator() *ProductAddRequestValidator {
	return &ProductAddRequestValidator{validate: newValidate()}
}

// Validate runs every rule against req.
func (v *ProductAddRequestValidator) Validate(req dto.ProductAddRequest) ValidationResult {
	return toResult(v.validate.Struct(req))
}

// ProductUpdateRequestValidator checks update requests.
type ProductUpdateRequestValidator struct {
	validate *validator.Validate
}

// NewProductUpdateRequestValidator creates a new ProductUpdateRequestValidator.
func NewProductUpdateRequestValidator() *ProductUpdateRequestValidator {
	return &ProductUpdateRequestValidator{validate: newValidate()}
}

// Validate runs every rule against req.
func (v *ProductUpdateRequestValidator) Validate(req dto.ProductUpdateRequest) ValidationResult {
	return toResult(v.validate.Struct(req))
}

func newValidate() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = validate.RegisterValidation("notblank", nonstandard.NotBlank)
	_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("unitprice", func(fl validator.FieldLevel) bool {
		price := fl.Field().Float()
		// NaN fails both comparisons; +Inf fails the upper bound.
		return price >= 0 && price <= math.MaxFloat64
	})
	return validate
}

func toResult(err error) ValidationResult {
	if err == nil {
		return ValidationResult{}
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ValidationResult{Errors: []FieldError{{Field: "", Message: err.Error()}}}
	}
	result := ValidationResult{Errors: make([]FieldError, 0, len(validationErrors))}
	for _, e := range validationErrors {
		message, ok := fieldMessages[e.StructField()]
		if !ok {
			message = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		result.Errors = append(result.Errors, FieldError{Field: e.StructField(), Message: message})
	}
	return result
}
