package handlers

import (
	"net/http"

	"github.com/dentalops/pricing-engine/internal/application/services"
)

// SetupHandler exposes the setup-gate oracle and the time-cost deriver.
// Both endpoints compute fresh on every request; nothing here is
// cached, so a settings change is visible immediately.
type SetupHandler struct {
	gates *services.SetupGateService
}

// NewSetupHandler creates a new setup handler
func NewSetupHandler(gates *services.SetupGateService) *SetupHandler {
	return &SetupHandler{gates: gates}
}

// GetStatus handles GET /api/setup/status
func (h *SetupHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.gates.Status(r.Context(), clinicID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

// GetCostPerMinute handles GET /api/time/cost-per-minute
func (h *SetupHandler) GetCostPerMinute(w http.ResponseWriter, r *http.Request) {
	timeCost, err := h.gates.CostPerMinute(r.Context(), clinicID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, timeCost)
}
