package controller

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/service"
	"armario-virtual/utils"
)

// WardrobeController handles HTTP requests for wardrobe items
type WardrobeController struct {
	wardrobe service.WardrobeServiceInterface
	thumbs   *service.ThumbnailCache
	logger   *log.Logger
}

// NewWardrobeController creates a new WardrobeController
func NewWardrobeController(wardrobe service.WardrobeServiceInterface, thumbs *service.ThumbnailCache, logger *log.Logger) *WardrobeController {
	return &WardrobeController{
		wardrobe: wardrobe,
		thumbs:   thumbs,
		logger:   logger,
	}
}

// List handles GET /wardrobe/items?category=top
func (c *WardrobeController) List(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" && raw != "all" {
		parsed, err := models.ParseCategory(raw)
		if err != nil {
			writeError(w, c.logger, "list items", err)
			return
		}
		category = parsed
	}

	writeJSON(w, c.logger, http.StatusOK, c.wardrobe.List(category))
}

// Create handles POST /wardrobe/items
// Answers 201 when the item is listed, 202 when it will arrive with the next sync snapshot
func (c *WardrobeController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.logger, "create item", err)
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		writeError(w, c.logger, "create item", err)
		return
	}
	image, err := utils.DecodeImagePayload(req.Image)
	if err != nil {
		writeError(w, c.logger, "create item", err)
		return
	}

	resp, err := c.wardrobe.Add(r.Context(), models.ItemDraft{Name: req.Name, Category: category, Image: image})
	if err != nil {
		writeError(w, c.logger, "create item", err)
		return
	}

	status := http.StatusCreated
	if !resp.Listed {
		status = http.StatusAccepted
	}
	writeJSON(w, c.logger, status, resp)
}

// Delete handles DELETE /wardrobe/items/{id}
func (c *WardrobeController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.wardrobe.Remove(r.Context(), id); err != nil {
		writeError(w, c.logger, "delete item", err)
		return
	}
	c.thumbs.Evict(id)
	w.WriteHeader(http.StatusNoContent)
}

// Image handles GET /wardrobe/items/{id}/image?size=thumb|medium
// Serves an optimized JPEG from the on-disk cache
func (c *WardrobeController) Image(w http.ResponseWriter, r *http.Request) {
	item, err := c.wardrobe.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, c.logger, "item image", err)
		return
	}

	size := r.URL.Query().Get("size")
	if size != "thumb" {
		size = "medium"
	}

	data, err := c.thumbs.Get(item.ID, size, item.Image)
	if err != nil {
		writeError(w, c.logger, "item image", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		c.logger.Error("❌ failed to write image", "id", item.ID, "err", err)
	}
}
