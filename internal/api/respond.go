package api

import (
	"encoding/json"
	"net/http"

	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps a service error onto its HTTP status and a JSON message
// body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.StatusFor(err), entities.MessageResponse{Message: err.Error()})
}
