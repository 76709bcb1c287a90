package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"armario-virtual/models"
)

// maxDriveImageBytes caps a single download
const maxDriveImageBytes = 20 << 20

var driveImageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// DriveService handles Google Drive API operations
// Implements DriveServiceInterface
type DriveService struct {
	client *drive.Service
	logger *log.Logger
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string, logger *log.Logger) (*DriveService, error) {
	return newDriveService(ctx, logger, option.WithCredentialsFile(credentialsPath))
}

func newDriveService(ctx context.Context, logger *log.Logger, opts ...option.ClientOption) (*DriveService, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
		logger: logger,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// ListImages lists all image files in a Google Drive folder
func (ds *DriveService) ListImages(ctx context.Context, folderID string) ([]models.DriveImage, error) {
	if strings.ContainsAny(folderID, `'\`) || strings.TrimSpace(folderID) == "" {
		return nil, fmt.Errorf("%w: invalid folder id %q", models.ErrInvalidInput, folderID)
	}
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list files: %w", models.ErrNetwork, err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	images := make([]models.DriveImage, 0, len(allFiles))
	for _, file := range allFiles {
		if !driveImageMimeTypes[strings.ToLower(file.MimeType)] {
			ds.logger.Debug("skipping non-image file", "name", file.Name, "mime", file.MimeType)
			continue
		}
		images = append(images, models.DriveImage{
			FileID:   file.Id,
			FileName: file.Name,
			MimeType: file.MimeType,
		})
	}

	ds.logger.Info("📂 drive folder listed", "folder", folderID, "files", len(allFiles), "images", len(images))
	return images, nil
}

// DownloadImage downloads the raw bytes of a Drive file
func (ds *DriveService) DownloadImage(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download %s: %w", models.ErrNetwork, fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDriveImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", models.ErrNetwork, fileID, err)
	}
	if len(data) > maxDriveImageBytes {
		return nil, fmt.Errorf("%w: file %s exceeds %d bytes", models.ErrInvalidInput, fileID, maxDriveImageBytes)
	}
	return data, nil
}
