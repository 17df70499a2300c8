package exchange

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/tolaoye/tolustock/internal/errors"
	"github.com/tolaoye/tolustock/internal/models"
)

// Export renders the snapshot as two CSV tables: one row per item and one
// row per category, each with a mandatory header row. Pure formatting; it
// only fails when the snapshot itself is malformed.
func Export(snap *models.InventorySnapshot) (itemsCSV, categoriesCSV []byte, err error) {
	var items bytes.Buffer
	w := csv.NewWriter(&items)
	if err := w.Write(itemColumns); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInternal, "failed to write items header", err)
	}
	for i := range snap.Items {
		item := &snap.Items[i]
		cat := snap.CategoryByID(item.CategoryID)
		if cat == nil {
			return nil, nil, errors.Newf(errors.ErrInternal,
				"item %q references unknown category %s", item.Name, item.CategoryID)
		}
		record := []string{
			item.ID.String(),
			item.Name,
			item.SKU,
			cat.Name,
			strconv.Itoa(item.Quantity),
			item.UnitCost.String(),
			strconv.Itoa(item.Threshold),
			item.UpdatedAtTime().UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, nil, errors.Wrap(errors.ErrInternal, "failed to write item row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInternal, "failed to flush items table", err)
	}

	var cats bytes.Buffer
	w = csv.NewWriter(&cats)
	if err := w.Write(categoryColumns); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInternal, "failed to write categories header", err)
	}
	for i := range snap.Categories {
		c := &snap.Categories[i]
		if err := w.Write([]string{c.Name, c.Description}); err != nil {
			return nil, nil, errors.Wrap(errors.ErrInternal, "failed to write category row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInternal, "failed to flush categories table", err)
	}

	return items.Bytes(), cats.Bytes(), nil
}
