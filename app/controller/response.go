package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
)

// maxBodyBytes caps JSON request bodies; images travel base64 encoded inside them
const maxBodyBytes = 25 << 20

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrDecode),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrEmptyWardrobe),
		errors.Is(err, models.ErrNoSelection):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSyncNotActive):
		return http.StatusConflict
	case errors.Is(err, models.ErrNetwork), errors.Is(err, models.ErrPartialData):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrLocalPersistence):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("❌ failed to encode response", "err", err)
	}
}

// writeError logs err under op and answers with its status and user message
func writeError(w http.ResponseWriter, logger *log.Logger, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("❌ "+op, "status", status, "err", err)
	} else {
		logger.Warn("⚠️  "+op, "status", status, "err", err)
	}
	writeJSON(w, logger, status, models.ErrorResponse{
		Error:     err.Error(),
		Message:   models.UserMessage(err),
		Retryable: models.Retryable(err),
	})
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", models.ErrInvalidInput, err)
	}
	return nil
}
