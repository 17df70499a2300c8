// Package inventory provides unit tests for the search filters.
package inventory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tolaoye/tolustock/internal/models"
)

func dec(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := decimal.RequireFromString(s)
	return &d
}

// TestFilterMatching exercises each filter against a fixed item.
func TestFilterMatching(t *testing.T) {
	item := &models.Item{
		Name:       "USB Cable",
		SKU:        "ELE-USB-01010000",
		CategoryID: "11111111-1111-4111-8111-111111111111",
		Quantity:   3,
		UnitCost:   decimal.RequireFromString("4.99"),
		Threshold:  5,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"name contains case-insensitive", &NameContainsFilter{Term: "usb"}, true},
		{"name does not contain", &NameContainsFilter{Term: "hdmi"}, false},
		{"category match", &CategoryFilter{CategoryID: item.CategoryID}, true},
		{"category mismatch", &CategoryFilter{CategoryID: "22222222-2222-4222-8222-222222222222"}, false},
		{"sku exact", &SKUFilter{SKU: "ELE-USB-01010000"}, true},
		{"sku mismatch", &SKUFilter{SKU: "OTHER"}, false},
		{"low stock at threshold", &LowStockFilter{}, true},
		{"cost inside range", &CostRangeFilter{Min: dec(t, "1"), Max: dec(t, "5")}, true},
		{"cost below range", &CostRangeFilter{Min: dec(t, "5")}, false},
		{"quantity inside range", &QuantityRangeFilter{Min: 0, Max: 3}, true},
		{"quantity above range", &QuantityRangeFilter{Min: 0, Max: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(item); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFilterValidity verifies the Valid checks.
func TestFilterValidity(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"blank search term", &NameContainsFilter{Term: "  "}, false},
		{"present search term", &NameContainsFilter{Term: "usb"}, true},
		{"missing category id", &CategoryFilter{}, false},
		{"missing sku", &SKUFilter{}, false},
		{"low stock always valid", &LowStockFilter{}, true},
		{"cost range with no bounds", &CostRangeFilter{}, false},
		{"cost range inverted", &CostRangeFilter{Min: dec(t, "9"), Max: dec(t, "1")}, false},
		{"cost range one bound", &CostRangeFilter{Max: dec(t, "9")}, true},
		{"quantity range inverted", &QuantityRangeFilter{Min: 5, Max: 2}, false},
		{"quantity range open max", &QuantityRangeFilter{Min: 1, Max: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Valid(); got != tt.want {
				t.Errorf("Valid = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLowStockFilterZeroQuantity verifies out-of-stock always matches,
// even with a zero threshold.
func TestLowStockFilterZeroQuantity(t *testing.T) {
	f := &LowStockFilter{}
	if !f.Match(&models.Item{Quantity: 0, Threshold: 0}) {
		t.Error("LowStockFilter should match an out-of-stock item with zero threshold")
	}
	if f.Match(&models.Item{Quantity: 1, Threshold: 0}) {
		t.Error("LowStockFilter should not match quantity 1 with zero threshold")
	}
}
