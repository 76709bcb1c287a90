package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-virtual/logger"
	"armario-virtual/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrDecode, http.StatusBadRequest},
		{fmt.Errorf("%w: name is required", models.ErrInvalidInput), http.StatusBadRequest},
		{models.ErrEmptyWardrobe, http.StatusBadRequest},
		{models.ErrNoSelection, http.StatusBadRequest},
		{fmt.Errorf("item x: %w", models.ErrNotFound), http.StatusNotFound},
		{models.ErrSyncNotActive, http.StatusConflict},
		{fmt.Errorf("%w: status 503", models.ErrNetwork), http.StatusBadGateway},
		{models.ErrPartialData, http.StatusBadGateway},
		{models.ErrLocalPersistence, http.StatusInsufficientStorage},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, logger.Discard(), "op", fmt.Errorf("%w: timeout", models.ErrNetwork))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"error": "network request failed: timeout",
		"message": "AI 或雲端服務暫時無法使用，請稍後再試",
		"retryable": true
	}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v models.JoinRoomRequest
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	err := decodeJSON(req, &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
