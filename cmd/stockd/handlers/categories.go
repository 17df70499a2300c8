package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tolaoye/tolustock/internal/inventory"
	"github.com/tolaoye/tolustock/internal/models"
)

// CategoryHandler handles category CRUD operations.
type CategoryHandler struct {
	repo *inventory.Repository
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(repo *inventory.Repository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// CategoryRequest represents the create/update request body.
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cats := h.repo.Categories()
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": cats, "count": len(cats)})
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	cat, err := h.repo.AddCategory(req.Name, description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// Update handles PATCH /api/categories?id=...
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	patch := inventory.CategoryPatch{Description: req.Description}
	if req.Name != "" {
		patch.Name = &req.Name
	}

	if err := h.repo.UpdateCategory(models.UUID(r.URL.Query().Get("id")), patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/categories?id=...&reassign_to=...
// Deleting a category still referenced by items requires reassign_to.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	err := h.repo.RemoveCategory(models.UUID(q.Get("id")), models.UUID(q.Get("reassign_to")))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
