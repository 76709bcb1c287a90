package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"armario-virtual/logger"
	"armario-virtual/models"
)

// fakeDrive serves a fixed folder from memory
type fakeDrive struct {
	images  []models.DriveImage
	files   map[string][]byte
	listErr error
}

func (f *fakeDrive) ListImages(context.Context, string) ([]models.DriveImage, error) {
	return f.images, f.listErr
}

func (f *fakeDrive) DownloadImage(_ context.Context, fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, models.ErrNetwork
	}
	return data, nil
}

type mockTagger struct {
	mock.Mock
}

func (m *mockTagger) AutoTag(ctx context.Context, image []byte) (models.TagResult, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(models.TagResult), args.Error(1)
}

func TestImportService_ImportFolder(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newTestWardrobe(t)

	drive := &fakeDrive{
		images: []models.DriveImage{
			{FileID: "f1", FileName: "IMG_0001.jpg"},
			{FileID: "f2", FileName: "bottom-black_jeans.png"},
			{FileID: "f3", FileName: "missing.png"},
			{FileID: "f4", FileName: "IMG_0002.jpg"},
		},
		files: map[string][]byte{
			"f1": solidPNG(t, 40, 40, red),
			"f2": solidPNG(t, 40, 40, blue),
			"f4": solidPNG(t, 40, 40, green),
		},
	}
	tagger := &mockTagger{}
	tagger.On("AutoTag", mock.Anything, drive.files["f1"]).Return(models.TagResult{Name: "紅色上衣", Category: models.CategoryTop}, nil)
	tagger.On("AutoTag", mock.Anything, drive.files["f2"]).Return(models.TagResult{}, models.ErrNetwork)
	tagger.On("AutoTag", mock.Anything, drive.files["f4"]).Return(models.TagResult{}, models.ErrPartialData)

	s := NewImportService(drive, w, tagger, logger.Discard())
	stats, err := s.ImportFolder(ctx, "folder")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 2, stats.Failed)
	assert.Len(t, stats.Errors, 2)

	items := w.List("")
	require.Len(t, items, 2)
	assert.Equal(t, "紅色上衣", items[0].Name)
	assert.Equal(t, "f1", items[0].SourceID)
	assert.Equal(t, "black jeans", items[1].Name)
	assert.Equal(t, models.CategoryBottom, items[1].Category)

	again, err := s.ImportFolder(ctx, "folder")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Skipped)
	assert.Equal(t, 0, again.Inserted)
	assert.Len(t, w.List(""), 2)
}

func TestImportService_WithoutTagger(t *testing.T) {
	w, _, _ := newTestWardrobe(t)
	drive := &fakeDrive{
		images: []models.DriveImage{{FileID: "f1", FileName: "shoes-白球鞋.jpg"}},
		files:  map[string][]byte{"f1": solidPNG(t, 10, 10, red)},
	}

	stats, err := NewImportService(drive, w, nil, logger.Discard()).ImportFolder(context.Background(), "folder")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, models.CategoryShoes, w.List("")[0].Category)
	assert.Equal(t, "白球鞋", w.List("")[0].Name)
}

func TestImportService_ListFailure(t *testing.T) {
	w, _, _ := newTestWardrobe(t)
	drive := &fakeDrive{listErr: errors.New("quota exceeded")}

	_, err := NewImportService(drive, w, nil, logger.Discard()).ImportFolder(context.Background(), "folder")
	assert.ErrorContains(t, err, "quota exceeded")
}
