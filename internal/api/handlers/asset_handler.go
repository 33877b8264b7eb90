package handlers

import (
	"net/http"

	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// AssetHandler handles depreciable asset capture endpoints
type AssetHandler struct {
	assets *services.AssetCaptureService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assets *services.AssetCaptureService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// CaptureAssets handles POST /api/assets
func (h *AssetHandler) CaptureAssets(w http.ResponseWriter, r *http.Request) {
	var inputs []entities.AssetInput
	if !decodeJSON(w, r, &inputs) {
		return
	}

	saved, err := h.assets.Capture(r.Context(), clinicID(r), inputs)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int{"saved": saved})
}

// GetSummary handles GET /api/assets/summary
func (h *AssetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.assets.Summary(r.Context(), clinicID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
