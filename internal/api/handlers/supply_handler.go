package handlers

import (
	"net/http"
	"strconv"

	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
)

// SupplyHandler handles consumable catalog HTTP requests
type SupplyHandler struct {
	catalog *services.SupplyCatalogService
}

// NewSupplyHandler creates a new supply handler
func NewSupplyHandler(catalog *services.SupplyCatalogService) *SupplyHandler {
	return &SupplyHandler{catalog: catalog}
}

// ListSupplies handles GET /api/supplies
func (h *SupplyHandler) ListSupplies(w http.ResponseWriter, r *http.Request) {
	filter := repositories.SupplyFilter{
		Search: r.URL.Query().Get("search"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	supplies, err := h.catalog.List(r.Context(), clinicID(r), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"supplies": supplies,
		"count":    len(supplies),
	})
}

// CreateSupply handles POST /api/supplies
func (h *SupplyHandler) CreateSupply(w http.ResponseWriter, r *http.Request) {
	var input entities.SupplyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	supply, created, err := h.catalog.CreateOrReuse(r.Context(), clinicID(r), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, supply)
}

// DeleteSupply handles DELETE /api/supplies/{id}
func (h *SupplyHandler) DeleteSupply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "supply ID is required")
		return
	}

	if err := h.catalog.Delete(r.Context(), clinicID(r), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
