package service

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"armario-virtual/logger"
)

var (
	red   = color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}
	green = color.RGBA{R: 0x20, G: 0xc0, B: 0x40, A: 0xff}
	blue  = color.RGBA{R: 0x20, G: 0x40, B: 0xd0, A: 0xff}
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestCodec() *ImageCodec {
	return NewImageCodec(logger.Discard())
}

func assertColorNear(t *testing.T, want color.Color, got color.Color) {
	t.Helper()
	const tolerance = 24
	wr, wg, wb, _ := want.RGBA()
	gr, gg, gb, _ := got.RGBA()
	near := func(a, b uint32) bool {
		d := int(a>>8) - int(b>>8)
		return d >= -tolerance && d <= tolerance
	}
	if !near(wr, gr) || !near(wg, gg) || !near(wb, gb) {
		t.Errorf("color mismatch: want %v, got %v", want, got)
	}
}
