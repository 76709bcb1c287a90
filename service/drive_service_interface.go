package service

import (
	"context"

	"armario-virtual/models"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListImages(ctx context.Context, folderID string) ([]models.DriveImage, error)
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
}
