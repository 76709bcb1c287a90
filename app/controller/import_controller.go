package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/service"
)

// ImportController handles HTTP requests for bulk imports
type ImportController struct {
	importer      service.ImportServiceInterface
	defaultFolder string
	logger        *log.Logger
}

// NewImportController creates a new ImportController. importer is nil when Drive is not configured.
func NewImportController(importer service.ImportServiceInterface, defaultFolder string, logger *log.Logger) *ImportController {
	return &ImportController{importer: importer, defaultFolder: defaultFolder, logger: logger}
}

// ImportDrive handles POST /admin/import/drive?folderId=XXX
// Falls back to BASE_GOOGLE_DRIVE_FOLDER_ID when folderId is omitted
func (c *ImportController) ImportDrive(w http.ResponseWriter, r *http.Request) {
	if c.importer == nil {
		writeJSON(w, c.logger, http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "google drive is not configured",
			Message: "尚未設定 Google Drive",
		})
		return
	}

	folderID := strings.TrimSpace(r.URL.Query().Get("folderId"))
	if folderID == "" {
		folderID = c.defaultFolder
	}
	if folderID == "" {
		writeError(w, c.logger, "drive import", fmt.Errorf("%w: folderId is required", models.ErrInvalidInput))
		return
	}

	c.logger.Info("📥 drive import requested", "folder", folderID)
	stats, err := c.importer.ImportFolder(r.Context(), folderID)
	if err != nil {
		writeError(w, c.logger, "drive import", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, stats)
}
