package repositories

import (
	"strings"

	"catalog/internal/models"
)

// Field names a filterable product column.
type Field string

const (
	FieldID       Field = "id"
	FieldName     Field = "name"
	FieldCategory Field = "category"
)

// Operator is how a Condition compares a field to its value.
type Operator string

const (
	// OpEquals is an exact match.
	OpEquals Operator = "eq"
	// OpContains is a case-insensitive substring match.
	OpContains Operator = "contains"
)

// Condition is one field comparison.
type Condition struct {
	Field    Field
	Operator Operator
	Value    string
}

// ProductFilter is a conjunction of conditions. The zero value matches every
// product.
type ProductFilter struct {
	Conditions []Condition
}

// ByID matches the product with the given identifier.
func ByID(id string) ProductFilter {
	return ProductFilter{Conditions: []Condition{{Field: FieldID, Operator: OpEquals, Value: id}}}
}

// NameContains matches products whose name contains text, ignoring case.
func NameContains(text string) ProductFilter {
	return ProductFilter{Conditions: []Condition{{Field: FieldName, Operator: OpContains, Value: text}}}
}

// CategoryContains matches products whose category contains text, ignoring case.
func CategoryContains(text string) ProductFilter {
	return ProductFilter{Conditions: []Condition{{Field: FieldCategory, Operator: OpContains, Value: text}}}
}

// And returns a filter requiring both f and other.
func (f ProductFilter) And(other ProductFilter) ProductFilter {
	conditions := make([]Condition, 0, len(f.Conditions)+len(other.Conditions))
	conditions = append(conditions, f.Conditions...)
	conditions = append(conditions, other.Conditions...)
	return ProductFilter{Conditions: conditions}
}

// Matches evaluates the filter against p.
func (f ProductFilter) Matches(p *models.Product) bool {
	for _, c := range f.Conditions {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// Matches evaluates a single condition against p. Unknown fields or
// operators never match.
func (c Condition) Matches(p *models.Product) bool {
	var actual string
	switch c.Field {
	case FieldID:
		actual = p.ID
	case FieldName:
		actual = p.Name
	case FieldCategory:
		actual = string(p.Category)
	default:
		return false
	}

	switch c.Operator {
	case OpEquals:
		return actual == c.Value
	case OpContains:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(c.Value))
	default:
		return false
	}
}
