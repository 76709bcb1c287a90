package controller

import (
	"net/http"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/service"
)

// SyncController handles HTTP requests for the sync session
type SyncController struct {
	session service.SyncSessionInterface
	logger  *log.Logger
}

// NewSyncController creates a new SyncController
func NewSyncController(session service.SyncSessionInterface, logger *log.Logger) *SyncController {
	return &SyncController{session: session, logger: logger}
}

// Status handles GET /sync
func (c *SyncController) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.logger, http.StatusOK, c.session.Status())
}

// Join handles POST /sync
// The session keeps running after the request returns
func (c *SyncController) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.logger, "join room", err)
		return
	}

	if err := c.session.Join(r.Context(), req.Room); err != nil {
		writeError(w, c.logger, "join room", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, c.session.Status())
}

// Leave handles DELETE /sync
func (c *SyncController) Leave(w http.ResponseWriter, r *http.Request) {
	if err := c.session.Leave(r.Context()); err != nil {
		writeError(w, c.logger, "leave room", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, c.session.Status())
}

// Flush handles POST /sync/flush
func (c *SyncController) Flush(w http.ResponseWriter, r *http.Request) {
	uploaded, err := c.session.Flush(r.Context())
	if err != nil {
		writeError(w, c.logger, "flush pending", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, map[string]any{
		"uploaded": uploaded,
		"status":   c.session.Status(),
	})
}
