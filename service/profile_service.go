package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/repository"
)

// ProfileService owns the body profile and the reference photo
type ProfileService struct {
	local  repository.LocalRepositoryInterface
	codec  *ImageCodec
	logger *log.Logger

	mu      sync.RWMutex
	profile models.BodyProfile
	photo   []byte
}

// NewProfileService creates a new ProfileService holding the default profile
func NewProfileService(local repository.LocalRepositoryInterface, codec *ImageCodec, logger *log.Logger) *ProfileService {
	return &ProfileService{
		local:   local,
		codec:   codec,
		logger:  logger,
		profile: models.DefaultBodyProfile(),
	}
}

// Load reads the stored profile and photo
func (s *ProfileService) Load(ctx context.Context) error {
	profile, err := s.local.LoadProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load body profile: %w", err)
	}
	photo, err := s.local.LoadBodyImage(ctx)
	if err != nil {
		return fmt.Errorf("failed to load body photo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	s.photo = photo
	return nil
}

// Get returns the current profile
func (s *ProfileService) Get() models.BodyProfileResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.BodyProfileResponse{Profile: s.profile, HasPhoto: len(s.photo) > 0}
}

// Profile returns the current measurements
func (s *ProfileService) Profile() models.BodyProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Photo returns the reference photo, nil when none is stored
func (s *ProfileService) Photo() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.photo
}

// Update overwrites the whole profile
func (s *ProfileService) Update(ctx context.Context, profile models.BodyProfile) (models.BodyProfile, error) {
	if err := profile.Validate(); err != nil {
		return models.BodyProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.local.SaveProfile(ctx, profile); err != nil {
		return models.BodyProfile{}, err
	}
	s.profile = profile
	s.logger.Info("📏 body profile updated", "height", profile.Height, "weight", profile.Weight)
	return profile, nil
}

// SetPhoto stores a new reference photo, shrunk for storage
func (s *ProfileService) SetPhoto(ctx context.Context, payload []byte) error {
	photo, err := s.codec.Optimize(payload, "medium")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.local.SaveBodyImage(ctx, photo); err != nil {
		return err
	}
	s.photo = photo
	s.logger.Info("📸 reference photo saved", "bytes", len(photo))
	return nil
}

// DeletePhoto removes the reference photo
func (s *ProfileService) DeletePhoto(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.local.SaveBodyImage(ctx, nil); err != nil {
		return err
	}
	s.photo = nil
	return nil
}
