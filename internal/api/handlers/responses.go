package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// DefaultClinicID scopes requests that carry no explicit clinic header.
// Authentication is out of scope; multi-clinic callers set X-Clinic-ID.
const DefaultClinicID = "default"

func clinicID(r *http.Request) string {
	if id := r.Header.Get("X-Clinic-ID"); id != "" {
		return id
	}
	return DefaultClinicID
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the application error taxonomy onto HTTP
// statuses. Field-level validation messages ride along so forms can
// place them next to the offending input.
func respondWithAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		status = http.StatusConflict
	case apperrors.ErrorTypeExternal:
		status = http.StatusBadGateway
	}

	body := map[string]interface{}{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	if status == http.StatusInternalServerError {
		body["error"] = "internal server error"
	}
	respondWithJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
