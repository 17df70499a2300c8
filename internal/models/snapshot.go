package models

import (
	"fmt"
	"strings"
)

// CurrentSchemaVersion is the snapshot schema version written by this build.
const CurrentSchemaVersion = 1

// InventorySnapshot is the full serializable engine state: ordered categories
// plus ordered items, tagged with a schema version for future migration.
// The repository wraps exactly one live snapshot at a time.
type InventorySnapshot struct {
	SchemaVersion int        `json:"schema_version"`
	Categories    []Category `json:"categories"`
	Items         []Item     `json:"items"`
}

// NewInventorySnapshot returns an empty snapshot at the current schema version.
func NewInventorySnapshot() *InventorySnapshot {
	return &InventorySnapshot{SchemaVersion: CurrentSchemaVersion}
}

// Clone returns a deep copy of the snapshot. Decimal values are immutable,
// so copying the slices is sufficient.
func (s *InventorySnapshot) Clone() *InventorySnapshot {
	out := &InventorySnapshot{
		SchemaVersion: s.SchemaVersion,
		Categories:    make([]Category, len(s.Categories)),
		Items:         make([]Item, len(s.Items)),
	}
	copy(out.Categories, s.Categories)
	copy(out.Items, s.Items)
	return out
}

// CategoryByID returns the category with the given id, or nil.
func (s *InventorySnapshot) CategoryByID(id UUID) *Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// CategoryByName returns the category matching name case-insensitively, or nil.
func (s *InventorySnapshot) CategoryByName(name string) *Category {
	for i := range s.Categories {
		if s.Categories[i].NameEquals(name) {
			return &s.Categories[i]
		}
	}
	return nil
}

// ItemByID returns the item with the given id, or nil.
func (s *InventorySnapshot) ItemByID(id UUID) *Item {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// Validate checks every snapshot invariant: unique ids, unique category names
// (case-insensitive), unique non-blank SKUs, non-empty names, non-negative
// quantity/threshold/cost, and resolvable category references.
func (s *InventorySnapshot) Validate() error {
	catIDs := make(map[UUID]bool, len(s.Categories))
	catNames := make(map[string]bool, len(s.Categories))
	for i := range s.Categories {
		c := &s.Categories[i]
		if c.ID == "" {
			return fmt.Errorf("category %q has no id", c.Name)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %s has an empty name", c.ID)
		}
		if catIDs[c.ID] {
			return fmt.Errorf("duplicate category id %s", c.ID)
		}
		lower := strings.ToLower(c.Name)
		if catNames[lower] {
			return fmt.Errorf("duplicate category name %q", c.Name)
		}
		catIDs[c.ID] = true
		catNames[lower] = true
	}

	itemIDs := make(map[UUID]bool, len(s.Items))
	skus := make(map[string]bool, len(s.Items))
	for i := range s.Items {
		it := &s.Items[i]
		if it.ID == "" {
			return fmt.Errorf("item %q has no id", it.Name)
		}
		if itemIDs[it.ID] {
			return fmt.Errorf("duplicate item id %s", it.ID)
		}
		itemIDs[it.ID] = true
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("item %s has an empty name", it.ID)
		}
		if it.Quantity < 0 {
			return fmt.Errorf("item %q has negative quantity %d", it.Name, it.Quantity)
		}
		if it.Threshold < 0 {
			return fmt.Errorf("item %q has negative threshold %d", it.Name, it.Threshold)
		}
		if it.UnitCost.IsNegative() {
			return fmt.Errorf("item %q has negative unit cost %s", it.Name, it.UnitCost)
		}
		if !catIDs[it.CategoryID] {
			return fmt.Errorf("item %q references unknown category %s", it.Name, it.CategoryID)
		}
		if it.SKU != "" {
			if skus[it.SKU] {
				return fmt.Errorf("duplicate SKU %q", it.SKU)
			}
			skus[it.SKU] = true
		}
	}
	return nil
}
