package handlers

import (
	"net/http"

	"github.com/dentalops/pricing-engine/internal/application/services"
)

// FixedCostHandler handles fixed-cost recording endpoints
type FixedCostHandler struct {
	costs *services.FixedCostService
}

// NewFixedCostHandler creates a new fixed cost handler
func NewFixedCostHandler(costs *services.FixedCostService) *FixedCostHandler {
	return &FixedCostHandler{costs: costs}
}

// ListFixedCosts handles GET /api/fixed-costs
func (h *FixedCostHandler) ListFixedCosts(w http.ResponseWriter, r *http.Request) {
	lines, summary, err := h.costs.List(r.Context(), clinicID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"lines":               lines,
		"total_monthly_cents": summary.TotalMonthlyCents,
		"count":               summary.Lines,
	})
}

// CreateFixedCost handles POST /api/fixed-costs
func (h *FixedCostHandler) CreateFixedCost(w http.ResponseWriter, r *http.Request) {
	var input services.FixedCostInput
	if !decodeJSON(w, r, &input) {
		return
	}

	line, err := h.costs.Create(r.Context(), clinicID(r), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, line)
}
