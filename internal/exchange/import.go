package exchange

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tolaoye/tolustock/internal/errors"
	"github.com/tolaoye/tolustock/internal/models"
	"github.com/tolaoye/tolustock/internal/uuid"
)

// Import parses both CSV tables and merges them into a copy of the current
// snapshot, leaving the input untouched. A malformed header or column count
// fails everything with a format error; individual bad rows are skipped and
// recorded in the report. Categories are upserted by name before any item
// row is applied, so item category references always resolve by then.
func Import(current *models.InventorySnapshot, itemsCSV, categoriesCSV []byte, policy ConflictPolicy) (*models.InventorySnapshot, *ImportReport, error) {
	if !policy.Valid() {
		return nil, nil, errors.Newf(errors.ErrValidation, "unknown conflict policy %q", policy)
	}

	merged := models.NewInventorySnapshot()
	if current != nil {
		merged = current.Clone()
	}
	report := &ImportReport{}

	if err := importCategories(merged, categoriesCSV, report); err != nil {
		return nil, nil, err
	}
	if err := importItems(merged, itemsCSV, policy, report); err != nil {
		return nil, nil, err
	}

	if err := merged.Validate(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInternal, "merged snapshot failed invariant check", err)
	}
	return merged, report, nil
}

// importCategories upserts the category table by case-insensitive name.
func importCategories(snap *models.InventorySnapshot, categoriesCSV []byte, report *ImportReport) error {
	rows, err := readTable(categoriesCSV, categoryColumns, "categories")
	if err != nil {
		return err
	}

	for _, row := range rows {
		report.Seen++
		name := strings.TrimSpace(row.fields[0])
		description := row.fields[1]
		if name == "" {
			report.addError(row.number, "category name is empty")
			continue
		}
		if existing := snap.CategoryByName(name); existing != nil {
			if existing.Description != description {
				existing.Description = description
				existing.Touch()
			}
			report.Applied++
			continue
		}
		now := time.Now().Unix()
		snap.Categories = append(snap.Categories, models.Category{
			ID:          models.UUID(uuid.New()),
			Name:        name,
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		report.Applied++
	}
	return nil
}

// importItems applies the item table row by row under the conflict policy.
func importItems(snap *models.InventorySnapshot, itemsCSV []byte, policy ConflictPolicy, report *ImportReport) error {
	rows, err := readTable(itemsCSV, itemColumns, "items")
	if err != nil {
		return err
	}

	for _, row := range rows {
		report.Seen++
		item, reason := parseItemRow(snap, row.fields)
		if reason != "" {
			report.addError(row.number, reason)
			continue
		}

		if item.ID == "" {
			// Blank id rows are always fresh items.
			item.ID = models.UUID(uuid.New())
			item.CreatedAt = item.UpdatedAt
			if conflict := skuConflict(snap, item, ""); conflict != "" {
				report.addError(row.number, conflict)
				continue
			}
			snap.Items = append(snap.Items, *item)
			report.Applied++
			continue
		}

		existing := snap.ItemByID(item.ID)
		if existing == nil {
			item.CreatedAt = item.UpdatedAt
			if conflict := skuConflict(snap, item, ""); conflict != "" {
				report.addError(row.number, conflict)
				continue
			}
			snap.Items = append(snap.Items, *item)
			report.Applied++
			continue
		}

		switch policy {
		case PolicySkipExisting:
			report.Skipped++
			report.addNote("row %d: item %s already exists, skipped", row.number, item.ID)
		case PolicyReplace, PolicyMergeKeepHigherQuantity:
			if conflict := skuConflict(snap, item, item.ID); conflict != "" {
				report.addError(row.number, conflict)
				continue
			}
			if policy == PolicyMergeKeepHigherQuantity && existing.Quantity > item.Quantity {
				item.Quantity = existing.Quantity
			}
			item.CreatedAt = existing.CreatedAt
			*existing = *item
			report.Applied++
		}
	}
	return nil
}

// tableRow pairs a parsed CSV record with its 1-based row number.
type tableRow struct {
	number int
	fields []string
}

// readTable parses a whole CSV table, enforcing the header and a uniform
// column count. Any structural problem is a file-level format error.
func readTable(data []byte, columns []string, table string) ([]tableRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrFormat,
			fmt.Sprintf("%s table is missing its header row", table), err)
	}
	if !headerMatches(header, columns) {
		return nil, errors.Newf(errors.ErrFormat,
			"%s table header %v does not match expected columns %v", table, header, columns)
	}

	var rows []tableRow
	number := 1
	for {
		record, err := reader.Read()
		number++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrFormat,
				fmt.Sprintf("%s table row %d is malformed", table, number), err)
		}
		rows = append(rows, tableRow{number: number, fields: record})
	}
	return rows, nil
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

// parseItemRow validates one item record against the snapshot, returning a
// row-level rejection reason instead of an error.
func parseItemRow(snap *models.InventorySnapshot, fields []string) (*models.Item, string) {
	rawID := strings.TrimSpace(fields[0])
	if rawID != "" && !uuid.IsValid(rawID) {
		return nil, fmt.Sprintf("invalid item id %q", rawID)
	}

	name := strings.TrimSpace(fields[1])
	if name == "" {
		return nil, "item name is empty"
	}

	categoryName := strings.TrimSpace(fields[3])
	cat := snap.CategoryByName(categoryName)
	if cat == nil {
		return nil, fmt.Sprintf("unknown category %q", categoryName)
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, fmt.Sprintf("invalid quantity %q", fields[4])
	}
	if quantity < 0 {
		return nil, fmt.Sprintf("negative quantity %d", quantity)
	}

	unitCost, err := decimal.NewFromString(strings.TrimSpace(fields[5]))
	if err != nil {
		return nil, fmt.Sprintf("invalid unit cost %q", fields[5])
	}
	if unitCost.IsNegative() {
		return nil, fmt.Sprintf("negative unit cost %s", unitCost)
	}

	threshold, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return nil, fmt.Sprintf("invalid threshold %q", fields[6])
	}
	if threshold < 0 {
		return nil, fmt.Sprintf("negative threshold %d", threshold)
	}

	updatedAt := time.Now().Unix()
	if raw := strings.TrimSpace(fields[7]); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Sprintf("invalid updated_at timestamp %q", raw)
		}
		updatedAt = ts.Unix()
	}

	return &models.Item{
		ID:         models.UUID(rawID),
		Name:       name,
		SKU:        strings.TrimSpace(fields[2]),
		CategoryID: cat.ID,
		Quantity:   quantity,
		UnitCost:   unitCost,
		Threshold:  threshold,
		UpdatedAt:  updatedAt,
	}, ""
}

// skuConflict reports a rejection reason when the item's SKU is already
// taken by a different item. ignoreID exempts the item being replaced.
func skuConflict(snap *models.InventorySnapshot, item *models.Item, ignoreID models.UUID) string {
	if item.SKU == "" {
		return ""
	}
	for i := range snap.Items {
		other := &snap.Items[i]
		if other.SKU == item.SKU && other.ID != ignoreID {
			return fmt.Sprintf("SKU %q already in use by item %s", item.SKU, other.ID)
		}
	}
	return ""
}
