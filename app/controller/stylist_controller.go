package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/service"
	"armario-virtual/utils"
)

// StylistController handles HTTP requests for the AI operations
type StylistController struct {
	stylist *service.StylistService
	archive service.ResultArchiveInterface
	logger  *log.Logger
}

// NewStylistController creates a new StylistController. archive may be nil.
func NewStylistController(stylist *service.StylistService, archive service.ResultArchiveInterface, logger *log.Logger) *StylistController {
	return &StylistController{stylist: stylist, archive: archive, logger: logger}
}

// Tag handles POST /ai/tag
func (c *StylistController) Tag(w http.ResponseWriter, r *http.Request) {
	var req models.TagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.logger, "auto-tag", err)
		return
	}
	image, err := utils.DecodeImagePayload(req.Image)
	if err != nil {
		writeError(w, c.logger, "auto-tag", err)
		return
	}

	result, err := c.stylist.AutoTag(r.Context(), image)
	if err != nil {
		writeError(w, c.logger, "auto-tag", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, result)
}

// Recommend handles POST /ai/recommend
// An empty body or weather picks a simulated weather
func (c *StylistController) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, c.logger, "recommend", err)
		return
	}

	resp, err := c.stylist.Recommend(r.Context(), strings.TrimSpace(req.Weather))
	if err != nil {
		writeError(w, c.logger, "recommend", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, resp)
}

// TryOn handles POST /ai/tryon
func (c *StylistController) TryOn(w http.ResponseWriter, r *http.Request) {
	result, err := c.stylist.TryOn(r.Context())
	if err != nil {
		writeError(w, c.logger, "try-on", err)
		return
	}

	resp := models.TryOnResponse{Image: utils.EncodeDataURL(result.Image)}
	if result.DownloadKey != "" {
		resp.DownloadURL = "/ai/tryon/" + result.DownloadKey
	}
	writeJSON(w, c.logger, http.StatusOK, resp)
}

// Download handles GET /ai/tryon/{key}
// Streams an archived try-on image as an attachment
func (c *StylistController) Download(w http.ResponseWriter, r *http.Request) {
	if c.archive == nil {
		writeError(w, c.logger, "download try-on", models.ErrNotFound)
		return
	}

	key := r.PathValue("key")
	rc, size, err := c.archive.Open(r.Context(), key)
	if err != nil {
		writeError(w, c.logger, "download try-on", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="virtual-tryon-`+key+`.jpg"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		c.logger.Error("❌ failed to stream try-on", "key", key, "err", err)
	}
}
