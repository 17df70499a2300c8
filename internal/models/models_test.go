// Package models provides unit tests for the data model invariants.
package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

// validSnapshot builds a snapshot that passes every invariant.
func validSnapshot(t *testing.T) *InventorySnapshot {
	t.Helper()
	snap := NewInventorySnapshot()
	snap.Categories = []Category{
		{ID: "11111111-1111-4111-8111-111111111111", Name: "Electronics", CreatedAt: 1, UpdatedAt: 1},
		{ID: "22222222-2222-4222-8222-222222222222", Name: "Office Supplies", CreatedAt: 1, UpdatedAt: 1},
	}
	snap.Items = []Item{
		{
			ID:         "33333333-3333-4333-8333-333333333333",
			Name:       "USB cable",
			SKU:        "ELE-USBC-01010000",
			CategoryID: "11111111-1111-4111-8111-111111111111",
			Quantity:   10,
			UnitCost:   decimal.NewFromInt(3),
			Threshold:  2,
			CreatedAt:  1,
			UpdatedAt:  1,
		},
	}
	return snap
}

// TestValidateAcceptsWellFormedSnapshot verifies the happy path.
func TestValidateAcceptsWellFormedSnapshot(t *testing.T) {
	if err := validSnapshot(t).Validate(); err != nil {
		t.Fatalf("Validate failed for a well-formed snapshot: %v", err)
	}
}

// TestValidateRejectsBrokenInvariants verifies each invariant is enforced.
func TestValidateRejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name  string
		mutate func(s *InventorySnapshot)
	}{
		{"empty category name", func(s *InventorySnapshot) { s.Categories[0].Name = "  " }},
		{"duplicate category id", func(s *InventorySnapshot) { s.Categories[1].ID = s.Categories[0].ID }},
		{"duplicate category name case-insensitive", func(s *InventorySnapshot) { s.Categories[1].Name = "electronics" }},
		{"empty item name", func(s *InventorySnapshot) { s.Items[0].Name = "" }},
		{"negative quantity", func(s *InventorySnapshot) { s.Items[0].Quantity = -1 }},
		{"negative threshold", func(s *InventorySnapshot) { s.Items[0].Threshold = -1 }},
		{"negative unit cost", func(s *InventorySnapshot) { s.Items[0].UnitCost = decimal.NewFromInt(-1) }},
		{"unresolved category reference", func(s *InventorySnapshot) { s.Items[0].CategoryID = "99999999-9999-4999-8999-999999999999" }},
		{"missing item id", func(s *InventorySnapshot) { s.Items[0].ID = "" }},
		{"duplicate item id", func(s *InventorySnapshot) {
			dup := s.Items[0]
			dup.SKU = "OTHER-SKU"
			s.Items = append(s.Items, dup)
		}},
		{"duplicate SKU", func(s *InventorySnapshot) {
			dup := s.Items[0]
			dup.ID = "44444444-4444-4444-8444-444444444444"
			s.Items = append(s.Items, dup)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot(t)
			tt.mutate(snap)
			if err := snap.Validate(); err == nil {
				t.Errorf("Validate accepted a snapshot with %s", tt.name)
			}
		})
	}
}

// TestCloneIsIndependent verifies mutations to a clone never leak back.
func TestCloneIsIndependent(t *testing.T) {
	snap := validSnapshot(t)
	clone := snap.Clone()

	clone.Items[0].Quantity = 999
	clone.Categories[0].Name = "Changed"
	clone.Items = append(clone.Items, clone.Items[0])

	if snap.Items[0].Quantity != 10 {
		t.Errorf("Clone mutation leaked into original quantity: %d", snap.Items[0].Quantity)
	}
	if snap.Categories[0].Name != "Electronics" {
		t.Errorf("Clone mutation leaked into original category name: %s", snap.Categories[0].Name)
	}
	if len(snap.Items) != 1 {
		t.Errorf("Clone append leaked into original items: %d", len(snap.Items))
	}
}

// TestLookupHelpers verifies the by-id and by-name accessors.
func TestLookupHelpers(t *testing.T) {
	snap := validSnapshot(t)

	if cat := snap.CategoryByName("ELECTRONICS"); cat == nil {
		t.Error("CategoryByName should match case-insensitively")
	}
	if cat := snap.CategoryByName("Groceries"); cat != nil {
		t.Errorf("CategoryByName returned unexpected category %q", cat.Name)
	}
	if item := snap.ItemByID(snap.Items[0].ID); item == nil {
		t.Error("ItemByID failed for an existing item")
	}
	if item := snap.ItemByID("no-such-id"); item != nil {
		t.Errorf("ItemByID returned unexpected item %q", item.Name)
	}
}

// TestStockValue verifies quantity times unit cost.
func TestStockValue(t *testing.T) {
	item := Item{Quantity: 4, UnitCost: decimal.RequireFromString("2.50")}
	want := decimal.RequireFromString("10")
	if got := item.StockValue(); !got.Equal(want) {
		t.Errorf("StockValue = %s, want %s", got, want)
	}
}
