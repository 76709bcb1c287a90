package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const defaultCacheDir = "cache/images"

// ThumbnailCache keeps optimized item images on disk
type ThumbnailCache struct {
	dir    string
	codec  *ImageCodec
	logger *log.Logger
}

// NewThumbnailCache creates a cache rooted at dir ("" uses cache/images)
func NewThumbnailCache(dir string, codec *ImageCodec, logger *log.Logger) *ThumbnailCache {
	if dir == "" {
		dir = defaultCacheDir
	}
	return &ThumbnailCache{dir: dir, codec: codec, logger: logger}
}

// EnsureDir ensures the cache directory exists, creates it if it doesn't
func (c *ThumbnailCache) EnsureDir() error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// Path returns the cache file path for an item id and size
func (c *ThumbnailCache) Path(itemID, size string) string {
	filename := fmt.Sprintf("item_%s_%s.jpg", filepath.Base(itemID), size)
	return filepath.Join(c.dir, filename)
}

// Get returns the optimized image for an item, generating and caching it on a miss.
// A failed cache write is logged and the image is still returned.
func (c *ThumbnailCache) Get(itemID, size string, payload []byte) ([]byte, error) {
	cachePath := c.Path(itemID, size)

	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	optimized, err := c.codec.Optimize(payload, size)
	if err != nil {
		return nil, err
	}

	if err := c.save(cachePath, optimized); err != nil {
		c.logger.Warn("⚠️  could not cache image", "path", cachePath, "err", err)
	}
	return optimized, nil
}

// Evict removes every cached size of an item
func (c *ThumbnailCache) Evict(itemID string) {
	for _, size := range []string{"thumb", "medium"} {
		if err := os.Remove(c.Path(itemID, size)); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("⚠️  could not evict cached image", "id", itemID, "size", size, "err", err)
		}
	}
}

func (c *ThumbnailCache) save(cachePath string, data []byte) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	c.logger.Debug("✓ image cached", "path", cachePath)
	return nil
}
