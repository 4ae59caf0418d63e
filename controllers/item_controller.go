package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"item-audit-api/models"
	"item-audit-api/repositories"
)

// ItemController handles item requests
type ItemController struct {
	items repositories.ItemRepository
}

// NewItemController creates a new item controller
func NewItemController(items repositories.ItemRepository) *ItemController {
	return &ItemController{items: items}
}

// Create handles POST /items/
func (c *ItemController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.ItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	item := &models.Item{Name: form.Name}
	if err := c.items.Create(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /items/{itemID}
func (c *ItemController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := c.items.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// List handles GET /items/
func (c *ItemController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.items.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	if items == nil {
		items = []models.Item{}
	}

	writeJSON(w, http.StatusOK, items)
}
