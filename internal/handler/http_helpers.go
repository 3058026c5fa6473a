package handler

import (
	"encoding/json"
	"net/http"

	apperrors "japanese-doc-reader/pkg/errors"
)

// writeJSON writes a JSON response (helper function)
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError maps a domain error onto its HTTP status and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromDomain(err)
	writeError(w, appErr.StatusCode, appErr.Message)
}
