package handlers

import (
	"net/http"

	"github.com/dentalops/pricing-engine/internal/application/wizard"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// WizardHandler exposes the service-creation wizard session API
type WizardHandler struct {
	manager *wizard.Manager
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(manager *wizard.Manager) *WizardHandler {
	return &WizardHandler{manager: manager}
}

// OpenSession handles POST /api/wizard
func (h *WizardHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Open(r.Context(), clinicID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /api/wizard/{id}
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// SaveTime handles PUT /api/wizard/{id}/time
func (h *WizardHandler) SaveTime(w http.ResponseWriter, r *http.Request) {
	var input entities.TimeConfigurationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := h.manager.SaveTime(r.Context(), r.PathValue("id"), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// SaveBasic handles PUT /api/wizard/{id}/basic
func (h *WizardHandler) SaveBasic(w http.ResponseWriter, r *http.Request) {
	var input wizard.BasicInfoInput
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := h.manager.SaveBasic(r.Context(), r.PathValue("id"), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// SaveRecipe handles PUT /api/wizard/{id}/recipe
func (h *WizardHandler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	var input wizard.RecipeInput
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := h.manager.SaveRecipe(r.Context(), r.PathValue("id"), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// CreateSupplyInline handles POST /api/wizard/{id}/supplies
func (h *WizardHandler) CreateSupplyInline(w http.ResponseWriter, r *http.Request) {
	var input entities.SupplyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := h.manager.CreateSupplyInline(r.Context(), r.PathValue("id"), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, view)
}

// SaveAssets handles PUT /api/wizard/{id}/assets
func (h *WizardHandler) SaveAssets(w http.ResponseWriter, r *http.Request) {
	var inputs []entities.AssetInput
	if !decodeJSON(w, r, &inputs) {
		return
	}

	view, err := h.manager.SaveAssets(r.Context(), r.PathValue("id"), inputs)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Proceed handles POST /api/wizard/{id}/proceed
func (h *WizardHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Target wizard.ProceedTarget `json:"target"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := h.manager.Proceed(r.Context(), r.PathValue("id"), input.Target)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Back handles POST /api/wizard/{id}/back
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Back(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Submit handles POST /api/wizard/{id}/submit
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// CancelSession handles DELETE /api/wizard/{id}
func (h *WizardHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Cancel(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
