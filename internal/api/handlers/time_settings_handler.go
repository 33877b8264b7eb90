package handlers

import (
	"net/http"

	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// TimeSettingsHandler handles the work-time configuration endpoints
type TimeSettingsHandler struct {
	settings *services.TimeSettingsService
}

// NewTimeSettingsHandler creates a new time settings handler
func NewTimeSettingsHandler(settings *services.TimeSettingsService) *TimeSettingsHandler {
	return &TimeSettingsHandler{settings: settings}
}

// GetSettings handles GET /api/settings/time
func (h *TimeSettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.Get(r.Context(), clinicID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

// PutSettings handles PUT /api/settings/time
func (h *TimeSettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var input entities.TimeConfigurationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	cfg, err := h.settings.Save(r.Context(), clinicID(r), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}
