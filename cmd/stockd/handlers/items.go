// Package handlers provides the localhost REST surface the presentation
// shell uses to drive the inventory engine.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tolaoye/tolustock/internal/errors"
	"github.com/tolaoye/tolustock/internal/inventory"
	"github.com/tolaoye/tolustock/internal/models"
)

// ItemHandler handles item CRUD and stock adjustment operations.
type ItemHandler struct {
	repo *inventory.Repository
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(repo *inventory.Repository) *ItemHandler {
	return &ItemHandler{repo: repo}
}

// writeError maps the engine error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrValidation), errors.Is(err, errors.ErrFormat):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errors.ErrDecryption):
		status = http.StatusUnauthorized
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ItemRequest represents the create/update request body.
type ItemRequest struct {
	Name       string  `json:"name"`
	SKU        *string `json:"sku,omitempty"`
	CategoryID string  `json:"category_id"`
	Quantity   *int    `json:"quantity,omitempty"`
	UnitCost   *string `json:"unit_cost,omitempty"`
	Threshold  *int    `json:"threshold,omitempty"`
}

// List handles GET /api/items with optional search, category, low_stock and
// sort query parameters.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
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
	if sku := q.Get("sku"); sku != "" {
		filters = append(filters, &inventory.SKUFilter{SKU: sku})
	}
	if q.Get("low_stock") == "true" {
		filters = append(filters, &inventory.LowStockFilter{})
	}

	items, err := h.repo.FindSorted(inventory.SortKey(q.Get("sort")), filters...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	item := models.Item{
		Name:       req.Name,
		CategoryID: models.UUID(req.CategoryID),
		UnitCost:   decimal.Zero,
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Threshold != nil {
		item.Threshold = *req.Threshold
	}
	if req.UnitCost != nil {
		cost, err := decimal.NewFromString(strings.TrimSpace(*req.UnitCost))
		if err != nil {
			http.Error(w, "Invalid unit_cost: "+err.Error(), http.StatusBadRequest)
			return
		}
		item.UnitCost = cost
	}

	if err := h.repo.AddItem(&item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id} given the id query parameter.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	item, err := h.repo.GetItem(models.UUID(r.URL.Query().Get("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update handles PATCH /api/items?id=...
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	patch := inventory.ItemPatch{
		SKU:       req.SKU,
		Quantity:  req.Quantity,
		Threshold: req.Threshold,
	}
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.CategoryID != "" {
		id := models.UUID(req.CategoryID)
		patch.CategoryID = &id
	}
	if req.UnitCost != nil {
		cost, err := decimal.NewFromString(strings.TrimSpace(*req.UnitCost))
		if err != nil {
			http.Error(w, "Invalid unit_cost: "+err.Error(), http.StatusBadRequest)
			return
		}
		patch.UnitCost = &cost
	}

	id := models.UUID(r.URL.Query().Get("id"))
	if err := h.repo.UpdateItem(id, patch); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.repo.GetItem(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// AdjustRequest represents the quantity adjustment request body.
type AdjustRequest struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
	Note  string `json:"note,omitempty"`
}

// Adjust handles POST /api/items/adjust, the only incremental quantity path.
func (h *ItemHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	newQty, err := h.repo.AdjustQuantity(models.UUID(req.ID), req.Delta, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"quantity": newQty})
}

// Delete handles DELETE /api/items?id=...
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.repo.RemoveItem(models.UUID(r.URL.Query().Get("id"))); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
