package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeRejection maps a structured rejection to its HTTP status. Conflicts
// (availability, storage races) are 409; everything the policy engine
// refuses is 403.
func writeRejection(w http.ResponseWriter, rejection *domain.Rejection) {
	status := http.StatusForbidden
	switch rejection.Type {
	case domain.ViolationAvailabilityConflict, domain.ViolationStorageConflict, domain.ViolationInvalidTransition:
		status = http.StatusConflict
	case domain.ViolationNoSupply:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, rejection)
}

// writeDomainError maps sentinel domain errors to HTTP statuses; anything
// unrecognized is an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "you are not allowed to perform this action")
	case errors.Is(err, domain.ErrInvalidTransition):
		// Lifecycle refusals carry the machine-readable violation type like
		// every other rejection.
		writeRejection(w, &domain.Rejection{
			Type:    domain.ViolationInvalidTransition,
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNoteRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
