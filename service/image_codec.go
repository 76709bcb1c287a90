package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"armario-virtual/models"
)

const (
	// Quality settings
	qualityThumb  = 0.60
	qualityMedium = 0.75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
	// maxDecodePixels bounds the surface a payload may declare before it is decoded
	maxDecodePixels = 40_000_000
)

// ImageCodec decodes, scales and re-encodes image payloads.
// It never mutates its inputs.
type ImageCodec struct {
	logger *log.Logger
}

// NewImageCodec creates a new ImageCodec
func NewImageCodec(logger *log.Logger) *ImageCodec {
	return &ImageCodec{logger: logger}
}

// Decode turns an encoded payload (JPEG, PNG, GIF, WebP) into a pixel surface.
// The declared size is checked against maxDecodePixels before any pixel is read.
// EXIF orientation from phone cameras is applied.
func (c *ImageCodec) Decode(payload []byte) (image.Image, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", models.ErrDecode)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", models.ErrDecode)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxDecodePixels {
		c.logger.Warn("⚠️  image too large to decode", "format", format, "width", cfg.Width, "height", cfg.Height)
		return nil, fmt.Errorf("%w: %dx%d %s exceeds %d pixels", models.ErrDecode, cfg.Width, cfg.Height, format, maxDecodePixels)
	}

	img, err := imaging.Decode(bytes.NewReader(payload), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", models.ErrDecode)
	}
	return img, nil
}

// ScaledSize returns the size of a w×h surface scaled so its longer edge is at most maxDim.
// Sizes already within bounds are returned unchanged.
func ScaledSize(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}

	longer := w
	if h > longer {
		longer = h
	}
	scale := float64(maxDim) / float64(longer)

	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

// Resize scales img proportionally so its longer edge does not exceed maxDim.
// It is a no-op when img already fits.
func (c *ImageCodec) Resize(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := ScaledSize(width, height, maxDim)
	if newWidth == width && newHeight == height {
		return img
	}

	c.logger.Debug("🔄 resizing image", "from", fmt.Sprintf("%dx%d", width, height), "to", fmt.Sprintf("%dx%d", newWidth, newHeight))
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}

// Encode writes img as JPEG at quality in (0, 1]
func (c *ImageCodec) Encode(img image.Image, quality float64) ([]byte, error) {
	if quality <= 0 || quality > 1 {
		return nil, fmt.Errorf("%w: quality %.2f outside (0, 1]", models.ErrInvalidInput, quality)
	}

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: jpegQuality(quality)}
	if err := jpeg.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func jpegQuality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

// Optimize shrinks a payload for storage.
// size is "thumb" or "medium"; anything else falls back to medium.
func (c *ImageCodec) Optimize(payload []byte, size string) ([]byte, error) {
	img, err := c.Decode(payload)
	if err != nil {
		return nil, err
	}

	var maxDim int
	var quality float64

	switch size {
	case "thumb":
		maxDim = maxSizeThumb
		quality = qualityThumb
	case "medium":
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		c.logger.Warn("⚠️  unknown size, defaulting to medium", "size", size)
	}

	optimized, err := c.Encode(c.Resize(img, maxDim), quality)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("✓ image optimized", "size", size, "input_bytes", len(payload), "output_bytes", len(optimized))
	return optimized, nil
}
