// Package alerts derives low-stock and out-of-stock signals from a snapshot.
package alerts

import (
	"sort"

	"github.com/tolaoye/tolustock/internal/models"
)

// Compute returns one AlertEntry per item that is out of stock or at/below
// its threshold, ordered OUT before LOW and then by item name.
//
// Severity policy: OUT when quantity == 0; LOW when 0 < quantity <= threshold.
// A threshold of zero therefore only ever produces OUT, never LOW.
func Compute(snap *models.InventorySnapshot) []models.AlertEntry {
	var entries []models.AlertEntry
	for i := range snap.Items {
		item := &snap.Items[i]
		severity, ok := severityFor(item)
		if !ok {
			continue
		}
		entries = append(entries, models.AlertEntry{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Threshold: item.Threshold,
			Severity:  severity,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Severity != entries[j].Severity {
			return entries[i].Severity == models.SeverityOut
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// severityFor classifies a single item, reporting ok=false when no alert
// applies.
func severityFor(item *models.Item) (models.Severity, bool) {
	switch {
	case item.Quantity == 0:
		return models.SeverityOut, true
	case item.Quantity <= item.Threshold:
		return models.SeverityLow, true
	default:
		return "", false
	}
}
