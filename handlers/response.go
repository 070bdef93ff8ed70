package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HamimSaadAlRaji/task-scheduler/logging"
	"github.com/HamimSaadAlRaji/task-scheduler/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// handleServiceError maps the service sentinels onto HTTP statuses.
// Anything unexpected is logged and surfaced as a 500.
func handleServiceError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Logger.Errorf("Event ID: STORE_OPERATION_FAILED, Description: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
