package handlers

import (
	"net/http"
	"strconv"

	"github.com/tolaoye/tolustock/internal/journal"
	"github.com/tolaoye/tolustock/internal/models"
)

// MovementHandler serves the stock movement ledger.
type MovementHandler struct {
	ledger *journal.Ledger
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(ledger *journal.Ledger) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// List handles GET /api/movements with optional item_id and limit
// parameters.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if itemID := q.Get("item_id"); itemID != "" {
		movements, err := h.ledger.ListForItem(models.UUID(itemID))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"movements": movements, "count": len(movements)})
		return
	}

	limit := 100
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit: "+raw, http.StatusBadRequest)
			return
		}
		limit = n
	}
	movements, err := h.ledger.ListRecent(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"movements": movements, "count": len(movements)})
}
