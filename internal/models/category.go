package models

// Category is the closed set of product categories.
type Category string

const (
	CategoryElectronics    Category = "Electronics"
	CategoryHomeAppliances Category = "HomeAppliances"
	CategoryFurniture      Category = "Furniture"
	CategoryAccessories    Category = "Accessories"
	CategoryStationery     Category = "Stationery"
)

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryHomeAppliances,
		CategoryFurniture,
		CategoryAccessories,
		CategoryStationery,
	}
}

// IsValid reports whether c is a member of the closed set.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
