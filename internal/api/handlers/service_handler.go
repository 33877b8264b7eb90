package handlers

import (
	"net/http"
	"strconv"

	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
)

// ServiceHandler handles service catalog HTTP requests
type ServiceHandler struct {
	catalog *services.ServiceCatalogService
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(catalog *services.ServiceCatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// ListServices handles GET /api/services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ServiceFilter{
		Search: r.URL.Query().Get("search"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	services, err := h.catalog.List(r.Context(), clinicID(r), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"services": services,
		"count":    len(services),
	})
}

// GetService handles GET /api/services/{id}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	service, err := h.catalog.GetByID(r.Context(), clinicID(r), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, service)
}

// CreateService handles POST /api/services
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var input entities.ServiceInput
	if !decodeJSON(w, r, &input) {
		return
	}

	created, err := h.catalog.Create(r.Context(), clinicID(r), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}
