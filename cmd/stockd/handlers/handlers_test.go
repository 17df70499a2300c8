package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/tolaoye/tolustock/internal/inventory"
	"github.com/tolaoye/tolustock/internal/models"
)

// setup builds a repository with one category and one item and returns it
// with their ids.
func setup(t *testing.T) (*inventory.Repository, models.UUID, models.UUID) {
	t.Helper()
	repo := inventory.NewRepository()
	cat, err := repo.AddCategory("Electronics", "Devices and accessories")
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	item := models.Item{Name: "USB cable", CategoryID: cat.ID, Quantity: 7, Threshold: 2}
	if err := repo.AddItem(&item); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	return repo, cat.ID, item.ID
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestItemCreate(t *testing.T) {
	repo, catID, _ := setup(t)
	h := NewItemHandler(repo)

	cost := "7.50"
	w := postJSON(t, h.Create, "/api/items", ItemRequest{
		Name:       "HDMI cable",
		CategoryID: string(catID),
		UnitCost:   &cost,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, body %s", w.Code, w.Body.String())
	}

	var created models.Item
	decodeBody(t, w, &created)
	if created.ID == "" || created.SKU == "" {
		t.Errorf("Created item missing generated fields: %+v", created)
	}
	if created.Name != "HDMI cable" {
		t.Errorf("Name = %q", created.Name)
	}
}

func TestItemCreateValidationError(t *testing.T) {
	repo, catID, _ := setup(t)
	h := NewItemHandler(repo)

	qty := -1
	w := postJSON(t, h.Create, "/api/items", ItemRequest{
		Name: "Broken", CategoryID: string(catID), Quantity: &qty,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Create with negative quantity status = %d, want 400", w.Code)
	}
}

func TestItemGetAndNotFound(t *testing.T) {
	repo, _, itemID := setup(t)
	h := NewItemHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/items/get?id="+string(itemID), nil)
	w := httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Get status = %d, body %s", w.Code, w.Body.String())
	}
	var item models.Item
	decodeBody(t, w, &item)
	if item.ID != itemID {
		t.Errorf("Get returned item %s, want %s", item.ID, itemID)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/items/get?id=00000000-0000-4000-8000-000000000000", nil)
	w = httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Get of unknown id status = %d, want 404", w.Code)
	}
}

func TestItemList(t *testing.T) {
	repo, catID, _ := setup(t)
	h := NewItemHandler(repo)

	second := models.Item{Name: "T-shirt", CategoryID: catID, Quantity: 0, Threshold: 5}
	if err := repo.AddItem(&second); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"all", "/api/items", 2},
		{"search", "/api/items?search=usb", 1},
		{"low stock", "/api/items?low_stock=true", 1},
		{"category", "/api/items?category_id=" + string(catID), 2},
		{"no match", "/api/items?search=nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			h.List(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("List status = %d", w.Code)
			}
			var resp struct {
				Count int `json:"count"`
			}
			decodeBody(t, w, &resp)
			if resp.Count != tt.want {
				t.Errorf("Count = %d, want %d", resp.Count, tt.want)
			}
		})
	}
}

func TestItemAdjust(t *testing.T) {
	repo, _, itemID := setup(t)
	h := NewItemHandler(repo)

	w := postJSON(t, h.Adjust, "/api/items/adjust", AdjustRequest{ID: string(itemID), Delta: -3})
	if w.Code != http.StatusOK {
		t.Fatalf("Adjust status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	decodeBody(t, w, &resp)
	if resp["quantity"] != 4 {
		t.Errorf("Quantity after adjust = %d, want 4", resp["quantity"])
	}

	// Oversell attempt leaves the quantity unchanged.
	w = postJSON(t, h.Adjust, "/api/items/adjust", AdjustRequest{ID: string(itemID), Delta: -10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Oversell status = %d, want 400", w.Code)
	}
	item, err := repo.GetItem(itemID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Quantity != 4 {
		t.Errorf("Quantity after failed adjust = %d, want 4", item.Quantity)
	}
}

func TestItemDelete(t *testing.T) {
	repo, _, itemID := setup(t)
	h := NewItemHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/items?id="+string(itemID), nil)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Delete status = %d", w.Code)
	}
	if _, err := repo.GetItem(itemID); err == nil {
		t.Error("Item still present after delete")
	}
}

func TestItemMethodNotAllowed(t *testing.T) {
	repo, _, _ := setup(t)
	h := NewItemHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/items", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("List via PUT status = %d, want 405", w.Code)
	}
}

func TestCategoryCreateConflict(t *testing.T) {
	repo, _, _ := setup(t)
	h := NewCategoryHandler(repo)

	w := postJSON(t, h.Create, "/api/categories", CategoryRequest{Name: "electronics"})
	if w.Code != http.StatusConflict {
		t.Errorf("Duplicate category status = %d, want 409", w.Code)
	}
}

func TestCategoryDeleteRequiresReassignment(t *testing.T) {
	repo, catID, itemID := setup(t)
	h := NewCategoryHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/categories?id="+string(catID), nil)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("Delete of referenced category status = %d, want 409", w.Code)
	}

	other, err := repo.AddCategory("Misc", "")
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	target := fmt.Sprintf("/api/categories?id=%s&reassign_to=%s", catID, other.ID)
	req = httptest.NewRequest(http.MethodDelete, target, nil)
	w = httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Delete with reassignment status = %d, body %s", w.Code, w.Body.String())
	}

	item, err := repo.GetItem(itemID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.CategoryID != other.ID {
		t.Errorf("Item category = %s, want %s", item.CategoryID, other.ID)
	}
}

func TestSaveAndOpen(t *testing.T) {
	repo, _, itemID := setup(t)
	h := NewExchangeHandler(repo)
	path := filepath.Join(t.TempDir(), "inventory.tstock")

	w := postJSON(t, h.Save, "/api/save", StoreRequest{Path: path, Password: "hunter22hunter22"})
	if w.Code != http.StatusOK {
		t.Fatalf("Save status = %d, body %s", w.Code, w.Body.String())
	}

	// Mutate, then open the saved file to roll back.
	if _, err := repo.AdjustQuantity(itemID, -5, ""); err != nil {
		t.Fatalf("AdjustQuantity failed: %v", err)
	}
	w = postJSON(t, h.Open, "/api/open", StoreRequest{Path: path, Password: "hunter22hunter22"})
	if w.Code != http.StatusOK {
		t.Fatalf("Open status = %d, body %s", w.Code, w.Body.String())
	}

	item, err := repo.GetItem(itemID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Quantity != 7 {
		t.Errorf("Quantity after open = %d, want 7", item.Quantity)
	}
}

func TestOpenWrongPassword(t *testing.T) {
	repo, _, itemID := setup(t)
	h := NewExchangeHandler(repo)
	path := filepath.Join(t.TempDir(), "inventory.tstock")

	w := postJSON(t, h.Save, "/api/save", StoreRequest{Path: path, Password: "hunter22hunter22"})
	if w.Code != http.StatusOK {
		t.Fatalf("Save status = %d", w.Code)
	}

	w = postJSON(t, h.Open, "/api/open", StoreRequest{Path: path, Password: "not-the-password"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Open with wrong password status = %d, want 401", w.Code)
	}
	// Repository untouched.
	if _, err := repo.GetItem(itemID); err != nil {
		t.Errorf("Repository lost state after failed open: %v", err)
	}
}

func TestExportImportFiles(t *testing.T) {
	repo, _, _ := setup(t)
	h := NewExchangeHandler(repo)
	dir := t.TempDir()
	itemsPath := filepath.Join(dir, "items.csv")
	categoriesPath := filepath.Join(dir, "categories.csv")

	w := postJSON(t, h.Export, "/api/export", ExportRequest{
		ItemsPath: itemsPath, CategoriesPath: categoriesPath,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Export status = %d, body %s", w.Code, w.Body.String())
	}

	w = postJSON(t, h.Import, "/api/import", ImportRequest{
		ItemsPath: itemsPath, CategoriesPath: categoriesPath, Policy: "replace",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Import status = %d, body %s", w.Code, w.Body.String())
	}

	var rep struct {
		Seen    int `json:"seen"`
		Applied int `json:"applied"`
		Errored int `json:"errored"`
	}
	decodeBody(t, w, &rep)
	if rep.Errored != 0 {
		t.Errorf("Self-import errored %d rows", rep.Errored)
	}
	if rep.Applied == 0 {
		t.Error("Self-import applied nothing")
	}
}
