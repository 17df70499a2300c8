// Package inventory provides the in-memory item repository, the single
// source of truth for categories and stock items.
package inventory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tolaoye/tolustock/internal/errors"
	"github.com/tolaoye/tolustock/internal/models"
	"github.com/tolaoye/tolustock/internal/uuid"
)

// Journal receives one StockMovement per successful quantity adjustment.
// A nil journal disables the ledger; a journal failure never rolls back the
// adjustment (the snapshot stays authoritative).
type Journal interface {
	Record(m *models.StockMovement) error
}

// Repository wraps exactly one live InventorySnapshot and serializes all
// access through a single RWMutex. Import and load replace the snapshot
// wholesale via Replace; readers always see a complete snapshot.
type Repository struct {
	mu      sync.RWMutex
	snap    *models.InventorySnapshot
	journal Journal
}

// NewRepository creates an empty repository at the current schema version.
func NewRepository() *Repository {
	return &Repository{snap: models.NewInventorySnapshot()}
}

// SetJournal attaches a movement ledger. Pass nil to detach.
func (r *Repository) SetJournal(j Journal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journal = j
}

// =====================================================
// Category operations
// =====================================================

// AddCategory creates a new category. Names are unique case-insensitively.
func (r *Repository) AddCategory(name, description string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrValidation, "category name must not be empty")
	}
	if r.snap.CategoryByName(name) != nil {
		return nil, errors.Newf(errors.ErrConflict, "category %q already exists", name)
	}

	now := time.Now().Unix()
	cat := models.Category{
		ID:          models.UUID(uuid.New()),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.snap.Categories = append(r.snap.Categories, cat)
	out := cat
	return &out, nil
}

// CategoryPatch holds optional category field updates. Nil fields are kept.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// UpdateCategory applies the patch to the category with the given id.
func (r *Repository) UpdateCategory(id models.UUID, patch CategoryPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cat := r.snap.CategoryByID(id)
	if cat == nil {
		return errors.Newf(errors.ErrNotFound, "category %s not found", id)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return errors.New(errors.ErrValidation, "category name must not be empty")
		}
		if existing := r.snap.CategoryByName(name); existing != nil && existing.ID != id {
			return errors.Newf(errors.ErrConflict, "category %q already exists", name)
		}
		cat.Name = name
	}
	if patch.Description != nil {
		cat.Description = *patch.Description
	}
	cat.Touch()
	return nil
}

// RemoveCategory deletes a category. When items still reference it,
// reassignTo must name another category to take them over; otherwise the
// call fails with a conflict and nothing changes.
func (r *Repository) RemoveCategory(id, reassignTo models.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snap.CategoryByID(id) == nil {
		return errors.Newf(errors.ErrNotFound, "category %s not found", id)
	}

	referenced := 0
	for i := range r.snap.Items {
		if r.snap.Items[i].CategoryID == id {
			referenced++
		}
	}
	if referenced > 0 {
		if reassignTo == "" {
			return errors.Newf(errors.ErrConflict,
				"category %s is still referenced by %d item(s)", id, referenced)
		}
		if reassignTo == id {
			return errors.New(errors.ErrValidation, "cannot reassign items to the category being removed")
		}
		if r.snap.CategoryByID(reassignTo) == nil {
			return errors.Newf(errors.ErrValidation, "reassignment target %s not found", reassignTo)
		}
		now := time.Now().Unix()
		for i := range r.snap.Items {
			if r.snap.Items[i].CategoryID == id {
				r.snap.Items[i].CategoryID = reassignTo
				r.snap.Items[i].UpdatedAt = now
			}
		}
	}

	kept := r.snap.Categories[:0]
	for _, c := range r.snap.Categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.snap.Categories = kept
	return nil
}

// Categories returns a copy of all categories in insertion order.
func (r *Repository) Categories() []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Category, len(r.snap.Categories))
	copy(out, r.snap.Categories)
	return out
}

// =====================================================
// Item operations
// =====================================================

// AddItem validates and stores a new item. The repository assigns the id and
// timestamps; a blank SKU is generated from the item and category names.
func (r *Repository) AddItem(item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return errors.New(errors.ErrValidation, "item name must not be empty")
	}
	if item.Quantity < 0 {
		return errors.Newf(errors.ErrValidation, "quantity must not be negative, got %d", item.Quantity)
	}
	if item.Threshold < 0 {
		return errors.Newf(errors.ErrValidation, "threshold must not be negative, got %d", item.Threshold)
	}
	if item.UnitCost.IsNegative() {
		return errors.Newf(errors.ErrValidation, "unit cost must not be negative, got %s", item.UnitCost)
	}
	cat := r.snap.CategoryByID(item.CategoryID)
	if cat == nil {
		return errors.Newf(errors.ErrValidation, "category %s not found", item.CategoryID)
	}
	if item.SKU == "" {
		item.SKU = r.generateSKU(item.Name, cat.Name)
	} else if r.itemBySKU(item.SKU) != nil {
		return errors.Newf(errors.ErrConflict, "SKU %q already in use", item.SKU)
	}

	now := time.Now().Unix()
	item.ID = models.UUID(uuid.New())
	item.CreatedAt = now
	item.UpdatedAt = now
	r.snap.Items = append(r.snap.Items, *item)
	return nil
}

// ItemPatch holds optional item field updates. Nil fields are kept.
// Quantity here is an absolute overwrite; use AdjustQuantity for movements.
type ItemPatch struct {
	Name       *string
	SKU        *string
	CategoryID *models.UUID
	Quantity   *int
	UnitCost   *decimal.Decimal
	Threshold  *int
}

// UpdateItem applies the patch to the item with the given id. Only provided
// fields change, plus the UpdatedAt timestamp.
func (r *Repository) UpdateItem(id models.UUID, patch ItemPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.snap.ItemByID(id)
	if item == nil {
		return errors.Newf(errors.ErrNotFound, "item %s not found", id)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return errors.New(errors.ErrValidation, "item name must not be empty")
		}
		item.Name = name
	}
	if patch.SKU != nil {
		if *patch.SKU != "" {
			if existing := r.itemBySKU(*patch.SKU); existing != nil && existing.ID != id {
				return errors.Newf(errors.ErrConflict, "SKU %q already in use", *patch.SKU)
			}
		}
		item.SKU = *patch.SKU
	}
	if patch.CategoryID != nil {
		if r.snap.CategoryByID(*patch.CategoryID) == nil {
			return errors.Newf(errors.ErrValidation, "category %s not found", *patch.CategoryID)
		}
		item.CategoryID = *patch.CategoryID
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return errors.Newf(errors.ErrValidation, "quantity must not be negative, got %d", *patch.Quantity)
		}
		item.Quantity = *patch.Quantity
	}
	if patch.UnitCost != nil {
		if patch.UnitCost.IsNegative() {
			return errors.Newf(errors.ErrValidation, "unit cost must not be negative, got %s", *patch.UnitCost)
		}
		item.UnitCost = *patch.UnitCost
	}
	if patch.Threshold != nil {
		if *patch.Threshold < 0 {
			return errors.Newf(errors.ErrValidation, "threshold must not be negative, got %d", *patch.Threshold)
		}
		item.Threshold = *patch.Threshold
	}
	item.Touch()
	return nil
}

// AdjustQuantity changes an item's quantity by delta and returns the new
// quantity. A delta that would take the quantity below zero fails and leaves
// it unchanged. Successful adjustments are appended to the journal when one
// is attached.
func (r *Repository) AdjustQuantity(id models.UUID, delta int, note string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.snap.ItemByID(id)
	if item == nil {
		return 0, errors.Newf(errors.ErrNotFound, "item %s not found", id)
	}
	next := item.Quantity + delta
	if next < 0 {
		return item.Quantity, errors.Newf(errors.ErrValidation,
			"adjustment of %d would take quantity below zero (current %d)", delta, item.Quantity)
	}
	item.Quantity = next
	item.Touch()

	if r.journal != nil && delta != 0 {
		movement := &models.StockMovement{
			ID:        models.UUID(uuid.New()),
			ItemID:    id,
			Direction: models.MovementIn,
			Quantity:  delta,
			Note:      note,
			CreatedAt: time.Now().Unix(),
		}
		if delta < 0 {
			movement.Direction = models.MovementOut
			movement.Quantity = -delta
		}
		if err := r.journal.Record(movement); err != nil {
			// Ledger is best-effort audit data; the adjustment stands.
			return next, nil
		}
	}
	return next, nil
}

// RemoveItem deletes the item with the given id. UUIDs are never reissued,
// so the id is retired implicitly.
func (r *Repository) RemoveItem(id models.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.snap.Items {
		if r.snap.Items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.Newf(errors.ErrNotFound, "item %s not found", id)
	}
	r.snap.Items = append(r.snap.Items[:idx], r.snap.Items[idx+1:]...)
	return nil
}

// GetItem returns a copy of the item with the given id.
func (r *Repository) GetItem(id models.UUID) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item := r.snap.ItemByID(id)
	if item == nil {
		return nil, errors.Newf(errors.ErrNotFound, "item %s not found", id)
	}
	out := *item
	return &out, nil
}

// Find returns copies of all items matching every filter, in insertion
// order. An invalid filter fails the whole query.
func (r *Repository) Find(filters ...Filter) ([]models.Item, error) {
	return r.FindSorted(SortNone, filters...)
}

// FindSorted is Find with an explicit sort key applied to the result.
func (r *Repository) FindSorted(key SortKey, filters ...Filter) ([]models.Item, error) {
	for _, f := range filters {
		if !f.Valid() {
			return nil, errors.Newf(errors.ErrValidation, "invalid filter %T", f)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Item
	for i := range r.snap.Items {
		item := &r.snap.Items[i]
		matched := true
		for _, f := range filters {
			if !f.Match(item) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, *item)
		}
	}
	if err := sortItems(out, key); err != nil {
		return nil, err
	}
	return out, nil
}

// =====================================================
// Snapshot operations
// =====================================================

// Snapshot returns a deep copy of the live snapshot for read-only use by
// the alert engine, report builder, codec and persistence store.
func (r *Repository) Snapshot() *models.InventorySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap.Clone()
}

// Replace swaps in a whole new snapshot after validating every invariant.
// Used by import and load; the swap is atomic under the write lock so
// readers never observe a half-replaced snapshot.
func (r *Repository) Replace(snap *models.InventorySnapshot) error {
	if snap == nil {
		return errors.New(errors.ErrValidation, "snapshot must not be nil")
	}
	if err := snap.Validate(); err != nil {
		return errors.Wrap(errors.ErrValidation, "snapshot failed invariant check", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = snap.Clone()
	return nil
}

// =====================================================
// Helpers (callers must hold the lock)
// =====================================================

func (r *Repository) itemBySKU(sku string) *models.Item {
	for i := range r.snap.Items {
		if r.snap.Items[i].SKU == sku {
			return &r.snap.Items[i]
		}
	}
	return nil
}

// generateSKU builds "CAT-PROD-MMDDHHMM" from the category and item names,
// appending a counter when the timestamp alone does not make it unique.
func (r *Repository) generateSKU(itemName, categoryName string) string {
	prefix := "GEN"
	if categoryName != "" {
		prefix = strings.ToUpper(firstN(categoryName, 3))
	}
	product := strings.ToUpper(alnumOnly(firstN(itemName, 4)))
	base := fmt.Sprintf("%s-%s-%s", prefix, product, time.Now().Format("01021504"))

	sku := base
	for n := 1; r.itemBySKU(sku) != nil; n++ {
		sku = fmt.Sprintf("%s-%d", base, n)
	}
	return sku
}

func firstN(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

func alnumOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortItems(items []models.Item, key SortKey) error {
	switch key {
	case SortNone:
	case SortByName:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	case SortByQuantity:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Quantity < items[j].Quantity })
	case SortByUnitCost:
		sort.SliceStable(items, func(i, j int) bool { return items[i].UnitCost.LessThan(items[j].UnitCost) })
	case SortByUpdatedAt:
		sort.SliceStable(items, func(i, j int) bool { return items[i].UpdatedAt < items[j].UpdatedAt })
	default:
		return errors.Newf(errors.ErrValidation, "unknown sort key %q", key)
	}
	return nil
}
