package controller

import (
	"net/http"

	"github.com/charmbracelet/log"

	"armario-virtual/service"
)

// LookbookController handles HTTP requests for the wardrobe lookbook
type LookbookController struct {
	lookbook service.LookbookServiceInterface
	logger   *log.Logger
}

// NewLookbookController creates a new LookbookController
func NewLookbookController(lookbook service.LookbookServiceInterface, logger *log.Logger) *LookbookController {
	return &LookbookController{lookbook: lookbook, logger: logger}
}

// Render handles GET /wardrobe/lookbook
// Returns the HTML page that headless Chrome prints for the PDF
func (c *LookbookController) Render(w http.ResponseWriter, r *http.Request) {
	html, err := c.lookbook.RenderHTML(r.Context())
	if err != nil {
		writeError(w, c.logger, "render lookbook", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		c.logger.Error("❌ failed to write lookbook", "err", err)
	}
}

// PDF handles GET /wardrobe/lookbook.pdf
func (c *LookbookController) PDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := c.lookbook.GeneratePDF(r.Context())
	if err != nil {
		writeError(w, c.logger, "lookbook pdf", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="lookbook.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		c.logger.Error("❌ failed to write lookbook pdf", "err", err)
	}
}
