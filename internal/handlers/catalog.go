package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gulf-float-booking/internal/services"
)

// CatalogHandler serves the bookable service catalog.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List returns all bookable services.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Services())
}

// Get returns a single service by id.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.Lookup(chi.URLParam(r, "serviceID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}
