package controller

import (
	"net/http"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/service"
)

// SelectionController handles HTTP requests for the outfit selection
type SelectionController struct {
	wardrobe service.WardrobeServiceInterface
	logger   *log.Logger
}

// NewSelectionController creates a new SelectionController
func NewSelectionController(wardrobe service.WardrobeServiceInterface, logger *log.Logger) *SelectionController {
	return &SelectionController{wardrobe: wardrobe, logger: logger}
}

// Get handles GET /selection
func (c *SelectionController) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.logger, http.StatusOK, c.wardrobe.Selection())
}

// Toggle handles POST /selection/toggle
func (c *SelectionController) Toggle(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleSelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.logger, "toggle selection", err)
		return
	}

	selected, err := c.wardrobe.Toggle(req.ID)
	if err != nil {
		writeError(w, c.logger, "toggle selection", err)
		return
	}

	writeJSON(w, c.logger, http.StatusOK, models.ToggleSelectionResponse{
		Selected:  selected,
		Selection: c.wardrobe.Selection(),
	})
}

// Clear handles DELETE /selection
func (c *SelectionController) Clear(w http.ResponseWriter, r *http.Request) {
	c.wardrobe.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}
