package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/pkg/logger"
)

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error envelope
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

// respondFieldErrors sends a 400 with one message per rejected field
func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error:   "Validation failed",
		Errors:  fields,
	})
}

// respondDomainError maps domain errors to status codes
func respondDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		respondFieldErrors(w, ve.Fields)
	case errors.Is(err, domain.ErrCommodityNotFound):
		respondError(w, http.StatusNotFound, "Commodity not found")
	case errors.Is(err, domain.ErrAlertNotFound):
		respondError(w, http.StatusNotFound, "Alert not found")
	default:
		logger.WithContext(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
