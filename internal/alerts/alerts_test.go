// Package alerts provides unit tests for the low-stock alert policy.
package alerts

import (
	"testing"

	"github.com/tolaoye/tolustock/internal/models"
)

func snapshotWith(items ...models.Item) *models.InventorySnapshot {
	snap := models.NewInventorySnapshot()
	snap.Categories = []models.Category{
		{ID: "11111111-1111-4111-8111-111111111111", Name: "General"},
	}
	for i := range items {
		items[i].CategoryID = snap.Categories[0].ID
	}
	snap.Items = items
	return snap
}

// TestComputeOrdering verifies the fixed three-item scenario: quantities
// [0, 3, 5] with thresholds [2, 3, 0] produce exactly two entries, OUT
// before LOW, regardless of input order.
func TestComputeOrdering(t *testing.T) {
	a := models.Item{ID: "33333333-3333-4333-8333-333333333331", Name: "Widget A", Quantity: 0, Threshold: 2}
	b := models.Item{ID: "33333333-3333-4333-8333-333333333332", Name: "Widget B", Quantity: 3, Threshold: 3}
	c := models.Item{ID: "33333333-3333-4333-8333-333333333333", Name: "Widget C", Quantity: 5, Threshold: 0}

	orders := [][]models.Item{
		{a, b, c},
		{c, b, a},
		{b, c, a},
	}
	for _, items := range orders {
		entries := Compute(snapshotWith(items...))
		if len(entries) != 2 {
			t.Fatalf("Compute returned %d entries, want 2", len(entries))
		}
		if entries[0].Name != "Widget A" || entries[0].Severity != models.SeverityOut {
			t.Errorf("First entry = %+v, want Widget A OUT", entries[0])
		}
		if entries[1].Name != "Widget B" || entries[1].Severity != models.SeverityLow {
			t.Errorf("Second entry = %+v, want Widget B LOW", entries[1])
		}
	}
}

// TestZeroThresholdNeverLow verifies a zero threshold only ever fires OUT.
func TestZeroThresholdNeverLow(t *testing.T) {
	entries := Compute(snapshotWith(
		models.Item{ID: "33333333-3333-4333-8333-333333333331", Name: "Stocked", Quantity: 1, Threshold: 0},
		models.Item{ID: "33333333-3333-4333-8333-333333333332", Name: "Empty", Quantity: 0, Threshold: 0},
	))
	if len(entries) != 1 {
		t.Fatalf("Compute returned %d entries, want 1", len(entries))
	}
	if entries[0].Name != "Empty" || entries[0].Severity != models.SeverityOut {
		t.Errorf("Entry = %+v, want Empty OUT", entries[0])
	}
}

// TestAlertNameOrderingWithinSeverity verifies the secondary sort key.
func TestAlertNameOrderingWithinSeverity(t *testing.T) {
	entries := Compute(snapshotWith(
		models.Item{ID: "33333333-3333-4333-8333-333333333331", Name: "Zinc", Quantity: 0},
		models.Item{ID: "33333333-3333-4333-8333-333333333332", Name: "Aluminium", Quantity: 0},
		models.Item{ID: "33333333-3333-4333-8333-333333333333", Name: "Copper", Quantity: 1, Threshold: 4},
		models.Item{ID: "33333333-3333-4333-8333-333333333334", Name: "Brass", Quantity: 2, Threshold: 4},
	))

	want := []string{"Aluminium", "Zinc", "Brass", "Copper"}
	if len(entries) != len(want) {
		t.Fatalf("Compute returned %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %s, want %s", i, entries[i].Name, name)
		}
	}
}

// TestNoAlertsForHealthyStock verifies quiet inventories produce nothing.
func TestNoAlertsForHealthyStock(t *testing.T) {
	entries := Compute(snapshotWith(
		models.Item{ID: "33333333-3333-4333-8333-333333333331", Name: "Plenty", Quantity: 10, Threshold: 2},
	))
	if len(entries) != 0 {
		t.Errorf("Compute returned %d entries for healthy stock", len(entries))
	}
}
