// Package exchange serializes the inventory to and from the CSV exchange
// format used for bulk backup and restore.
package exchange

import "fmt"

// ConflictPolicy selects how an imported row whose id already exists in the
// current snapshot is applied.
type ConflictPolicy string

const (
	// PolicyReplace overwrites the existing item entirely.
	PolicyReplace ConflictPolicy = "replace"
	// PolicyMergeKeepHigherQuantity keeps the larger of the two quantities
	// and takes every other field from the imported row.
	PolicyMergeKeepHigherQuantity ConflictPolicy = "merge-keep-higher-quantity"
	// PolicySkipExisting leaves the existing item untouched and records a note.
	PolicySkipExisting ConflictPolicy = "skip-existing"
)

// Valid reports whether the policy is one of the defined values.
func (p ConflictPolicy) Valid() bool {
	switch p {
	case PolicyReplace, PolicyMergeKeepHigherQuantity, PolicySkipExisting:
		return true
	}
	return false
}

// itemColumns is the stable item table column order. updated_at is RFC3339.
var itemColumns = []string{"id", "name", "sku", "category", "quantity", "unit_cost", "threshold", "updated_at"}

// categoryColumns is the stable category table column order.
var categoryColumns = []string{"name", "description"}

// RowError records one skipped import row with its 1-based row number
// (the header is row 1) and the reason it was rejected.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ImportReport summarizes one import run. Row-level failures are collected
// here and never surfaced as errors; the presentation layer shows the
// report verbatim.
type ImportReport struct {
	Seen    int        `json:"seen"`
	Applied int        `json:"applied"`
	Skipped int        `json:"skipped"`
	Errored int        `json:"errored"`
	Errors  []RowError `json:"errors,omitempty"`
	Notes   []string   `json:"notes,omitempty"`
}

// addError records a rejected row.
func (r *ImportReport) addError(row int, reason string) {
	r.Errored++
	r.Errors = append(r.Errors, RowError{Row: row, Reason: reason})
}

// addNote records a non-error event such as a skipped duplicate.
func (r *ImportReport) addNote(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}
