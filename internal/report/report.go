// Package report builds aggregate inventory views from snapshot and alert
// state. Pure projections: no mutation, no I/O.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/tolaoye/tolustock/internal/errors"
	"github.com/tolaoye/tolustock/internal/inventory"
	"github.com/tolaoye/tolustock/internal/models"
)

// CategorySummary is the per-category rollup.
type CategorySummary struct {
	CategoryID    models.UUID     `json:"category_id"`
	Name          string          `json:"name"`
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// Report is a deterministic aggregate view over a snapshot.
type Report struct {
	TotalItems      int                 `json:"total_items"`
	TotalQuantity   int                 `json:"total_quantity"`
	TotalValue      decimal.Decimal     `json:"total_value"`
	PerCategory     []CategorySummary   `json:"per_category"`
	Alerts          []models.AlertEntry `json:"alerts"`
	OutOfStockCount int                 `json:"out_of_stock_count"`
	LowStockCount   int                 `json:"low_stock_count"`
}

// Build aggregates the snapshot under the given filters. Alerts are
// restricted to the items the filters admit so a filtered report stays
// coherent. Categories appear in snapshot order, including empty ones.
func Build(snap *models.InventorySnapshot, alerts []models.AlertEntry, filters ...inventory.Filter) (*Report, error) {
	for _, f := range filters {
		if !f.Valid() {
			return nil, errors.Newf(errors.ErrValidation, "invalid filter %T", f)
		}
	}

	included := make(map[models.UUID]bool, len(snap.Items))
	summaries := make([]CategorySummary, 0, len(snap.Categories))
	index := make(map[models.UUID]int, len(snap.Categories))
	for i := range snap.Categories {
		c := &snap.Categories[i]
		index[c.ID] = len(summaries)
		summaries = append(summaries, CategorySummary{
			CategoryID: c.ID,
			Name:       c.Name,
			TotalValue: decimal.Zero,
		})
	}

	out := &Report{TotalValue: decimal.Zero}
	for i := range snap.Items {
		item := &snap.Items[i]
		matched := true
		for _, f := range filters {
			if !f.Match(item) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		included[item.ID] = true

		value := item.StockValue()
		out.TotalItems++
		out.TotalQuantity += item.Quantity
		out.TotalValue = out.TotalValue.Add(value)

		if idx, ok := index[item.CategoryID]; ok {
			summaries[idx].ItemCount++
			summaries[idx].TotalQuantity += item.Quantity
			summaries[idx].TotalValue = summaries[idx].TotalValue.Add(value)
		}
	}
	out.PerCategory = summaries

	for _, a := range alerts {
		if !included[a.ItemID] {
			continue
		}
		out.Alerts = append(out.Alerts, a)
		switch a.Severity {
		case models.SeverityOut:
			out.OutOfStockCount++
		case models.SeverityLow:
			out.LowStockCount++
		}
	}
	return out, nil
}
