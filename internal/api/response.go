package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/lifecycle"
)

// Error kinds exposed to API clients. Clients branch on kind, not on the
// human-readable message.
const (
	kindValidation        = "validation"
	kindNotFound          = "not_found"
	kindInvalidTransition = "invalid_transition"
	kindConflict          = "conflict"
	kindTransient         = "transient"
	kindUnauthorized      = "unauthorized"
	kindInternal          = "internal"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, kind, message string) {
	jsonResponse(w, status, map[string]string{"error": message, "kind": kind})
}

// serviceError maps lifecycle errors onto HTTP responses.
func serviceError(w http.ResponseWriter, err error) {
	var ve *lifecycle.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, http.StatusBadRequest, kindValidation, ve.Error())
	case errors.Is(err, lifecycle.ErrNotFound):
		jsonError(w, http.StatusNotFound, kindNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		jsonError(w, http.StatusUnprocessableEntity, kindInvalidTransition, err.Error())
	case errors.Is(err, lifecycle.ErrConflict):
		jsonError(w, http.StatusConflict, kindConflict, err.Error())
	case errors.Is(err, lifecycle.ErrTransient):
		jsonError(w, http.StatusServiceUnavailable, kindTransient, err.Error())
	default:
		slog.Error("request failed", "error", err)
		jsonError(w, http.StatusInternalServerError, kindInternal, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
