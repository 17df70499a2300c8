package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/tolaoye/tolustock/internal/exchange"
	"github.com/tolaoye/tolustock/internal/inventory"
	"github.com/tolaoye/tolustock/internal/store"
)

// ExchangeHandler handles CSV export/import and the encrypted store file.
type ExchangeHandler struct {
	repo *inventory.Repository
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(repo *inventory.Repository) *ExchangeHandler {
	return &ExchangeHandler{repo: repo}
}

// ExportRequest represents the export request body.
type ExportRequest struct {
	ItemsPath      string `json:"items_path"`
	CategoriesPath string `json:"categories_path"`
}

// Export handles POST /api/export, writing the two CSV tables to disk.
func (h *ExchangeHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ItemsPath == "" || req.CategoriesPath == "" {
		http.Error(w, "items_path and categories_path are required", http.StatusBadRequest)
		return
	}

	itemsCSV, categoriesCSV, err := exchange.Export(h.repo.Snapshot())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := os.WriteFile(req.ItemsPath, itemsCSV, 0644); err != nil {
		http.Error(w, "Failed to write items file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(req.CategoriesPath, categoriesCSV, 0644); err != nil {
		http.Error(w, "Failed to write categories file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"items_path":      req.ItemsPath,
		"categories_path": req.CategoriesPath,
	})
}

// ImportRequest represents the import request body.
type ImportRequest struct {
	ItemsPath      string `json:"items_path"`
	CategoriesPath string `json:"categories_path"`
	Policy         string `json:"policy"`
}

// Import handles POST /api/import. The resulting report is returned
// verbatim so the shell can show exactly which rows failed and why.
func (h *ExchangeHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	itemsCSV, err := os.ReadFile(req.ItemsPath)
	if err != nil {
		http.Error(w, "Failed to read items file: "+err.Error(), http.StatusBadRequest)
		return
	}
	categoriesCSV, err := os.ReadFile(req.CategoriesPath)
	if err != nil {
		http.Error(w, "Failed to read categories file: "+err.Error(), http.StatusBadRequest)
		return
	}

	merged, rep, err := exchange.Import(h.repo.Snapshot(), itemsCSV, categoriesCSV,
		exchange.ConflictPolicy(req.Policy))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.repo.Replace(merged); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// StoreRequest represents the save/open request body.
type StoreRequest struct {
	Path     string `json:"path"`
	Password string `json:"password"`
}

// Save handles POST /api/save, writing the encrypted store file atomically.
func (h *ExchangeHandler) Save(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := store.Save(req.Path, h.repo.Snapshot(), req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": req.Path})
}

// Open handles POST /api/open. A failed load or decrypt leaves the
// in-memory repository untouched.
func (h *ExchangeHandler) Open(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := store.Load(req.Path, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.repo.Replace(snap); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":      len(snap.Items),
		"categories": len(snap.Categories),
	})
}
