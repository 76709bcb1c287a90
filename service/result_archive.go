package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"armario-virtual/config"
	"armario-virtual/models"
)

// ResultArchiveInterface defines the contract for storing generated try-on images
type ResultArchiveInterface interface {
	Save(ctx context.Context, image []byte) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

// minioAPI is the part of *minio.Client the archive uses
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}

var keyPattern = regexp.MustCompile(`^[0-9a-f-]{36}$`)

// ResultArchive keeps generated try-on images in a MinIO bucket under tryon/<uuid>.jpg
// Implements ResultArchiveInterface
type ResultArchive struct {
	api    minioAPI
	bucket string
	logger *log.Logger
}

// NewResultArchive connects to MinIO and ensures the bucket exists
func NewResultArchive(ctx context.Context, cfg config.Storage, logger *log.Logger) (*ResultArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newResultArchiveWithAPI(ctx, minioClientWrapper{c: client}, cfg.Bucket, logger)
}

func newResultArchiveWithAPI(ctx context.Context, api minioAPI, bucket string, logger *log.Logger) (*ResultArchive, error) {
	a := &ResultArchive{api: api, bucket: bucket, logger: logger}

	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("🪣 bucket created", "bucket", bucket)
	}
	return a, nil
}

// Ensure ResultArchive implements ResultArchiveInterface
var _ ResultArchiveInterface = (*ResultArchive)(nil)

// Save uploads a generated image and returns its download key
func (a *ResultArchive) Save(ctx context.Context, image []byte) (string, error) {
	key := uuid.NewString()
	_, err := a.api.PutObject(ctx, a.bucket, objectName(key), bytes.NewReader(image), int64(len(image)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload object: %w", models.ErrNetwork, err)
	}
	a.logger.Debug("✓ try-on archived", "key", key, "bytes", len(image))
	return key, nil
}

// Open returns a reader over an archived image and its size
func (a *ResultArchive) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if !keyPattern.MatchString(key) {
		return nil, 0, fmt.Errorf("%w: invalid download key", models.ErrNotFound)
	}

	info, err := a.api.StatObject(ctx, a.bucket, objectName(key), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, fmt.Errorf("try-on %s: %w", key, models.ErrNotFound)
		}
		return nil, 0, fmt.Errorf("%w: failed to stat object: %w", models.ErrNetwork, err)
	}

	obj, err := a.api.GetObject(ctx, a.bucket, objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to get object: %w", models.ErrNetwork, err)
	}
	return obj, info.Size, nil
}

func objectName(key string) string {
	return "tryon/" + key + ".jpg"
}
