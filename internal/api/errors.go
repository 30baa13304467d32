package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/joe-stock/internal/tags"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeTagError maps a tag manager error to its response. Persistence failures
// get the generic fallback message; their cause is logged by the manager and
// never written to the client.
func writeTagError(w http.ResponseWriter, err error, fallback string) {
	var nf *tags.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error(), "NOT_FOUND")
	case errors.Is(err, tags.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	case errors.Is(err, tags.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	case errors.Is(err, tags.ErrTagInUse):
		writeError(w, http.StatusBadRequest, tags.ErrTagInUse.Error(), "TAG_IN_USE")
	case errors.Is(err, tags.ErrNotLinked):
		writeError(w, http.StatusConflict, tags.ErrNotLinked.Error(), "NOT_LINKED")
	default:
		writeError(w, http.StatusInternalServerError, fallback, "INTERNAL_ERROR")
	}
}
