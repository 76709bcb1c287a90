package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/utils"
)

// TaggerInterface suggests a name and category for a garment photo
type TaggerInterface interface {
	AutoTag(ctx context.Context, image []byte) (models.TagResult, error)
}

// ImportServiceInterface defines the contract for bulk imports
type ImportServiceInterface interface {
	ImportFolder(ctx context.Context, folderID string) (models.ImportStats, error)
}

// ImportService copies garment photos from a Google Drive folder into the wardrobe
// Implements ImportServiceInterface
type ImportService struct {
	drive    DriveServiceInterface
	wardrobe WardrobeServiceInterface
	tagger   TaggerInterface
	logger   *log.Logger
}

// NewImportService creates a new ImportService. tagger may be nil, in which case
// names and categories come from the file names alone.
func NewImportService(drive DriveServiceInterface, wardrobe WardrobeServiceInterface, tagger TaggerInterface, logger *log.Logger) *ImportService {
	return &ImportService{
		drive:    drive,
		wardrobe: wardrobe,
		tagger:   tagger,
		logger:   logger,
	}
}

// Ensure ImportService implements ImportServiceInterface
var _ ImportServiceInterface = (*ImportService)(nil)

// ImportFolder adds every image of the folder that was not imported before.
// A file that cannot be downloaded, labelled or stored is counted as failed and the import goes on.
func (s *ImportService) ImportFolder(ctx context.Context, folderID string) (models.ImportStats, error) {
	s.logger.Info("🔄 starting drive import", "folder", folderID)

	images, err := s.drive.ListImages(ctx, folderID)
	if err != nil {
		return models.ImportStats{}, fmt.Errorf("failed to list images from Drive: %w", err)
	}

	stats := models.ImportStats{Total: len(images)}
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if s.wardrobe.HasSource(img.FileID) {
			s.logger.Debug("⏭️  already imported", "file", img.FileName)
			stats.Skipped++
			continue
		}

		if err := s.importOne(ctx, img); err != nil {
			s.logger.Error("❌ import failed", "file", img.FileName, "err", err)
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", img.FileName, err))
			continue
		}
		stats.Inserted++
	}

	s.logger.Info("🎉 drive import completed", "inserted", stats.Inserted, "skipped", stats.Skipped, "failed", stats.Failed, "total", stats.Total)
	return stats, nil
}

func (s *ImportService) importOne(ctx context.Context, img models.DriveImage) error {
	data, err := s.drive.DownloadImage(ctx, img.FileID)
	if err != nil {
		return err
	}

	name, category, err := s.label(ctx, img, data)
	if err != nil {
		return err
	}

	_, err = s.wardrobe.Add(ctx, models.ItemDraft{
		Name:     name,
		Category: category,
		Image:    data,
		SourceID: img.FileID,
	})
	return err
}

// label asks the tagger first and falls back to the file name
func (s *ImportService) label(ctx context.Context, img models.DriveImage, data []byte) (string, models.Category, error) {
	if s.tagger != nil {
		tag, err := s.tagger.AutoTag(ctx, data)
		if err == nil {
			return tag.Name, tag.Category, nil
		}
		s.logger.Warn("⚠️  auto-tag failed, using file name", "file", img.FileName, "err", err)
	}
	return utils.ParseFileName(img.FileName)
}
