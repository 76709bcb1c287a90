package service

import (
	"bytes"
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-virtual/logger"
	"armario-virtual/models"
)

func TestProfileService_DefaultsWhenNothingStored(t *testing.T) {
	local := newLocalRepo(t)
	s := NewProfileService(local, newTestCodec(), logger.Discard())
	require.NoError(t, s.Load(context.Background()))

	got := s.Get()
	assert.Equal(t, models.DefaultBodyProfile(), got.Profile)
	assert.False(t, got.HasPhoto)
	assert.Nil(t, s.Photo())
}

func TestProfileService_UpdatePersists(t *testing.T) {
	ctx := context.Background()
	local := newLocalRepo(t)
	s := NewProfileService(local, newTestCodec(), logger.Discard())

	p := models.DefaultBodyProfile()
	p.Height = 180
	p.Description = "瘦長"
	_, err := s.Update(ctx, p)
	require.NoError(t, err)

	reloaded := NewProfileService(local, newTestCodec(), logger.Discard())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, p, reloaded.Profile())
}

func TestProfileService_UpdateRejectsNegative(t *testing.T) {
	s := NewProfileService(newLocalRepo(t), newTestCodec(), logger.Discard())

	p := models.DefaultBodyProfile()
	p.Waist = -1
	_, err := s.Update(context.Background(), p)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, models.DefaultBodyProfile(), s.Profile())
}

func TestProfileService_Photo(t *testing.T) {
	ctx := context.Background()
	local := newLocalRepo(t)
	s := NewProfileService(local, newTestCodec(), logger.Discard())

	require.NoError(t, s.SetPhoto(ctx, solidPNG(t, 1600, 1200, red)))
	assert.True(t, s.Get().HasPhoto)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(s.Photo()))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	reloaded := NewProfileService(local, newTestCodec(), logger.Discard())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.Photo(), reloaded.Photo())

	require.NoError(t, s.DeletePhoto(ctx))
	assert.False(t, s.Get().HasPhoto)
	require.NoError(t, reloaded.Load(ctx))
	assert.Nil(t, reloaded.Photo())
}

func TestProfileService_SetPhotoRejectsGarbage(t *testing.T) {
	s := NewProfileService(newLocalRepo(t), newTestCodec(), logger.Discard())

	err := s.SetPhoto(context.Background(), []byte("nope"))
	assert.ErrorIs(t, err, models.ErrDecode)
	assert.False(t, s.Get().HasPhoto)
}
