package api

import (
	"net/http"

	"github.com/okian/vitalis/internal/domain/types"
)

// CatalogProvider exposes the questionnaire.
type CatalogProvider interface {
	Catalog() types.Catalog
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogProvider
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogProvider) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Catalog())
}
