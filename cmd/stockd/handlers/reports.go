package handlers

import (
	"net/http"

	"github.com/tolaoye/tolustock/internal/alerts"
	"github.com/tolaoye/tolustock/internal/inventory"
	"github.com/tolaoye/tolustock/internal/models"
	"github.com/tolaoye/tolustock/internal/report"
)

// ReportHandler serves alert and report projections. Both operate on a
// snapshot copy, so they never block writers.
type ReportHandler struct {
	repo *inventory.Repository
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(repo *inventory.Repository) *ReportHandler {
	return &ReportHandler{repo: repo}
}

// Alerts handles GET /api/alerts. The shell polls this on its own cadence.
func (h *ReportHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entries := alerts.Compute(h.repo.Snapshot())
	writeJSON(w, http.StatusOK, map[string]interface{}{"alerts": entries, "count": len(entries)})
}

// Report handles GET /api/report with the same filter parameters as the
// item listing.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var filters []inventory.Filter
	q := r.URL.Query()
	if term := q.Get("search"); term != "" {
		filters = append(filters, &inventory.NameContainsFilter{Term: term})
	}
	if cat := q.Get("category_id"); cat != "" {
		filters = append(filters, &inventory.CategoryFilter{CategoryID: models.UUID(cat)})
	}
	if q.Get("low_stock") == "true" {
		filters = append(filters, &inventory.LowStockFilter{})
	}

	snap := h.repo.Snapshot()
	out, err := report.Build(snap, alerts.Compute(snap), filters...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
