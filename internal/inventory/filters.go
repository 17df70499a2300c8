package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tolaoye/tolustock/internal/models"
)

// Filter represents a single search filter condition applied to an item.
type Filter interface {
	// Match reports whether the item satisfies this filter
	Match(item *models.Item) bool

	// Valid checks if the filter is valid
	Valid() bool
}

// SortKey selects the ordering of query results. SortNone keeps insertion
// order.
type SortKey string

const (
	SortNone        SortKey = ""
	SortByName      SortKey = "name"
	SortByQuantity  SortKey = "quantity"
	SortByUnitCost  SortKey = "unit_cost"
	SortByUpdatedAt SortKey = "updated_at"
)

// NameContainsFilter matches items whose name contains the term,
// case-insensitively.
type NameContainsFilter struct {
	Term string
}

// Valid checks that a search term is present.
func (f *NameContainsFilter) Valid() bool {
	return strings.TrimSpace(f.Term) != ""
}

// Match reports whether the item name contains the term.
func (f *NameContainsFilter) Match(item *models.Item) bool {
	return strings.Contains(strings.ToLower(item.Name), strings.ToLower(f.Term))
}

// CategoryFilter matches items belonging to a category.
type CategoryFilter struct {
	CategoryID models.UUID
}

// Valid checks that a category id is present.
func (f *CategoryFilter) Valid() bool {
	return f.CategoryID != ""
}

// Match reports whether the item belongs to the category.
func (f *CategoryFilter) Match(item *models.Item) bool {
	return item.CategoryID == f.CategoryID
}

// SKUFilter matches an exact SKU.
type SKUFilter struct {
	SKU string
}

// Valid checks that a SKU is present.
func (f *SKUFilter) Valid() bool {
	return f.SKU != ""
}

// Match reports whether the item carries the SKU.
func (f *SKUFilter) Match(item *models.Item) bool {
	return item.SKU == f.SKU
}

// LowStockFilter matches items at or below their threshold, including
// out-of-stock items.
type LowStockFilter struct{}

// Valid always holds for LowStockFilter.
func (f *LowStockFilter) Valid() bool {
	return true
}

// Match reports whether the item is out of stock or at/below its threshold.
func (f *LowStockFilter) Match(item *models.Item) bool {
	return item.Quantity == 0 || item.Quantity <= item.Threshold
}

// CostRangeFilter matches items whose unit cost falls within [Min, Max].
// A nil boundary is open.
type CostRangeFilter struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Valid checks that at least one boundary is set and Min <= Max when both are.
func (f *CostRangeFilter) Valid() bool {
	if f.Min == nil && f.Max == nil {
		return false
	}
	if f.Min != nil && f.Max != nil && f.Min.GreaterThan(*f.Max) {
		return false
	}
	return true
}

// Match reports whether the item unit cost is inside the range.
func (f *CostRangeFilter) Match(item *models.Item) bool {
	if f.Min != nil && item.UnitCost.LessThan(*f.Min) {
		return false
	}
	if f.Max != nil && item.UnitCost.GreaterThan(*f.Max) {
		return false
	}
	return true
}

// QuantityRangeFilter matches items whose quantity falls within [Min, Max].
// Negative boundaries mark the side as open.
type QuantityRangeFilter struct {
	Min int
	Max int
}

// Valid checks that the range is coherent.
func (f *QuantityRangeFilter) Valid() bool {
	if f.Min < 0 && f.Max < 0 {
		return false
	}
	if f.Min >= 0 && f.Max >= 0 && f.Min > f.Max {
		return false
	}
	return true
}

// Match reports whether the item quantity is inside the range.
func (f *QuantityRangeFilter) Match(item *models.Item) bool {
	if f.Min >= 0 && item.Quantity < f.Min {
		return false
	}
	if f.Max >= 0 && item.Quantity > f.Max {
		return false
	}
	return true
}
