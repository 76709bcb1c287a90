package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	CanvasWidth  = 1200
	CanvasHeight = 800

	compositeQuality = 0.9
	bodyFill         = 0.9
	garmentFill      = 0.8

	bodyLabel    = "Reference Face/Body"
	clothesLabel = "Clothes to Wear"
)

var (
	canvasBackground  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	clothesBackground = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	labelColor        = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// Placement is where one source image lands on the canvas
type Placement struct {
	Cell image.Rectangle `json:"cell"`
	Rect image.Rectangle `json:"rect"`
}

// Layout describes a composite before any pixels are drawn
type Layout struct {
	Canvas   image.Rectangle `json:"canvas"`
	Body     *Placement      `json:"body,omitempty"`
	Garments []Placement     `json:"garments"`
}

// PlanLayout computes where the body photo and garments go on the 1200×800 canvas.
// body is nil when there is no body photo. Sizes must be positive.
func PlanLayout(body *image.Point, garments []image.Point) Layout {
	canvas := image.Rect(0, 0, CanvasWidth, CanvasHeight)
	layout := Layout{Canvas: canvas, Garments: make([]Placement, 0, len(garments))}

	if body != nil {
		cell := image.Rect(0, 0, CanvasWidth/2, CanvasHeight)
		layout.Body = &Placement{Cell: cell, Rect: fitRect(cell, *body, bodyFill)}
	}

	cells := garmentCells(len(garments))
	for i, size := range garments {
		layout.Garments = append(layout.Garments, Placement{
			Cell: cells[i],
			Rect: fitRect(cells[i], size, garmentFill),
		})
	}
	return layout
}

// garmentCells splits the right half of the canvas.
// One garment gets a centered 70%×60% cell, two sit side by side in the vertical middle,
// and three or more fill a grid of ceil(sqrt(n)) columns.
func garmentCells(n int) []image.Rectangle {
	startX := CanvasWidth / 2
	halfW := CanvasWidth - startX

	switch {
	case n <= 0:
		return nil
	case n == 1:
		w := int(float64(halfW) * 0.7)
		h := int(float64(CanvasHeight) * 0.6)
		x := startX + (halfW-w)/2
		y := (CanvasHeight - h) / 2
		return []image.Rectangle{image.Rect(x, y, x+w, y+h)}
	case n == 2:
		w, h := halfW/2, CanvasHeight/2
		y := (CanvasHeight - h) / 2
		return []image.Rectangle{
			image.Rect(startX, y, startX+w, y+h),
			image.Rect(startX+w, y, startX+2*w, y+h),
		}
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	w, h := halfW/cols, CanvasHeight/rows

	cells := make([]image.Rectangle, n)
	for i := range cells {
		x := startX + (i%cols)*w
		y := (i / cols) * h
		cells[i] = image.Rect(x, y, x+w, y+h)
	}
	return cells
}

// fitRect scales src to fill fraction of cell, preserving aspect ratio, centered
func fitRect(cell image.Rectangle, src image.Point, fill float64) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 {
		return image.Rectangle{Min: cell.Min, Max: cell.Min}
	}

	scale := math.Min(float64(cell.Dx())/float64(src.X), float64(cell.Dy())/float64(src.Y)) * fill
	w := max(int(math.Round(float64(src.X)*scale)), 1)
	h := max(int(math.Round(float64(src.Y)*scale)), 1)

	x := cell.Min.X + (cell.Dx()-w)/2
	y := cell.Min.Y + (cell.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// GridCompositor lays out a body photo and garments on one canvas for the try-on model
type GridCompositor struct {
	codec  *ImageCodec
	logger *log.Logger
}

// NewGridCompositor creates a new GridCompositor
func NewGridCompositor(codec *ImageCodec, logger *log.Logger) *GridCompositor {
	return &GridCompositor{codec: codec, logger: logger}
}

// Compose decodes every input and renders the composite JPEG.
// A nil body leaves the left half blank. Any input that fails to decode aborts the whole composite.
func (g *GridCompositor) Compose(ctx context.Context, body []byte, garments [][]byte) ([]byte, Layout, error) {
	var bodyImg image.Image
	if len(body) > 0 {
		img, err := g.codec.Decode(body)
		if err != nil {
			return nil, Layout{}, fmt.Errorf("body photo: %w", err)
		}
		bodyImg = img
	}

	garmentImgs := make([]image.Image, 0, len(garments))
	for i, payload := range garments {
		if err := ctx.Err(); err != nil {
			return nil, Layout{}, err
		}
		img, err := g.codec.Decode(payload)
		if err != nil {
			return nil, Layout{}, fmt.Errorf("garment %d: %w", i+1, err)
		}
		garmentImgs = append(garmentImgs, img)
	}

	layout := PlanLayout(sizeOf(bodyImg), sizesOf(garmentImgs))

	canvas := image.NewRGBA(layout.Canvas)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(canvasBackground), image.Point{}, draw.Src)

	if bodyImg != nil {
		drawFitted(canvas, bodyImg, layout.Body.Rect)
		drawLabel(canvas, bodyLabel, image.Pt(20, 40))
	}

	startX := CanvasWidth / 2
	right := image.Rect(startX, 0, CanvasWidth, CanvasHeight)
	draw.Draw(canvas, right, image.NewUniform(clothesBackground), image.Point{}, draw.Src)
	drawLabel(canvas, clothesLabel, image.Pt(startX+20, 40))

	for i, img := range garmentImgs {
		if err := ctx.Err(); err != nil {
			return nil, Layout{}, err
		}
		drawFitted(canvas, img, layout.Garments[i].Rect)
	}

	out, err := g.codec.Encode(canvas, compositeQuality)
	if err != nil {
		return nil, Layout{}, err
	}

	g.logger.Debug("🧩 composite rendered", "body", bodyImg != nil, "garments", len(garmentImgs), "bytes", len(out))
	return out, layout, nil
}

func sizeOf(img image.Image) *image.Point {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	return &image.Point{X: b.Dx(), Y: b.Dy()}
}

func sizesOf(imgs []image.Image) []image.Point {
	sizes := make([]image.Point, len(imgs))
	for i, img := range imgs {
		sizes[i] = *sizeOf(img)
	}
	return sizes
}

func drawFitted(dst draw.Image, src image.Image, rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	scaled := imaging.Resize(src, rect.Dx(), rect.Dy(), imaging.Lanczos)
	draw.Draw(dst, rect, scaled, image.Point{}, draw.Over)
}

func drawLabel(dst draw.Image, text string, baseline image.Point) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(baseline.X, baseline.Y),
	}
	d.DrawString(text)
}
