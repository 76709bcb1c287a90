package controller

import (
	"net/http"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/service"
	"armario-virtual/utils"
)

// ProfileController handles HTTP requests for the body profile
type ProfileController struct {
	profile *service.ProfileService
	logger  *log.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profile *service.ProfileService, logger *log.Logger) *ProfileController {
	return &ProfileController{profile: profile, logger: logger}
}

// Get handles GET /profile
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.logger, http.StatusOK, c.profile.Get())
}

// Update handles PUT /profile
// Fields missing from the body keep their default values
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	profile := models.DefaultBodyProfile()
	if err := decodeJSON(r, &profile); err != nil {
		writeError(w, c.logger, "update profile", err)
		return
	}

	if _, err := c.profile.Update(r.Context(), profile); err != nil {
		writeError(w, c.logger, "update profile", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, c.profile.Get())
}

// SetPhoto handles PUT /profile/photo
func (c *ProfileController) SetPhoto(w http.ResponseWriter, r *http.Request) {
	var req models.ProfilePhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.logger, "set profile photo", err)
		return
	}
	image, err := utils.DecodeImagePayload(req.Image)
	if err != nil {
		writeError(w, c.logger, "set profile photo", err)
		return
	}

	if err := c.profile.SetPhoto(r.Context(), image); err != nil {
		writeError(w, c.logger, "set profile photo", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, c.profile.Get())
}

// DeletePhoto handles DELETE /profile/photo
func (c *ProfileController) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := c.profile.DeletePhoto(r.Context()); err != nil {
		writeError(w, c.logger, "delete profile photo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
