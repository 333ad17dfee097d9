package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/permissions"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// mapError translates domain sentinel errors to HTTP status codes.
// All mapping lives here so individual handlers stay concise.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidEndpoint),
		errors.Is(err, domain.ErrInvalidKeys),
		errors.Is(err, permissions.ErrUnknown):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, permissions.ErrWildcardActive):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
