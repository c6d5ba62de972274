package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meur/wardrobe-fetcher/internal/models"
)

// handleGetCategories returns item counts per category
func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByCategory()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count items")
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

// handleGetItems returns catalog items, optionally for one category
func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := models.ParseCategory(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		category = c
	}

	items, err := s.store.GetItems(category)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total_count": len(items),
	})
}

// handleGetItem returns a single item by ID
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := s.store.GetItem(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	respondJSON(w, http.StatusOK, item)
}
