package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Surface is a drawing target in logical pixels.
type Surface interface {
	Clear()
	// DrawIcon draws img centred at (cx, cy), scaled to size×size, with
	// its alpha multiplied by alpha.
	DrawIcon(img image.Image, cx, cy, size, alpha float64)
}

// Resizer is implemented by surfaces whose backing store follows the
// container size and device pixel ratio.
type Resizer interface {
	Resize(width, height int, dpr float64)
}

// ImageSurface draws into an in-memory RGBA buffer sized width×dpr by
// height×dpr device pixels.
type ImageSurface struct {
	Width      int // logical pixels
	Height     int
	DPR        float64
	Background color.Color

	img *image.RGBA
}

// NewImageSurface allocates a transparent surface.
func NewImageSurface(width, height int, dpr float64) *ImageSurface {
	s := &ImageSurface{Background: color.Transparent}
	s.Resize(width, height, dpr)
	return s
}

// Resize reallocates the buffer for the new logical size and pixel ratio.
func (s *ImageSurface) Resize(width, height int, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	s.Width, s.Height, s.DPR = width, height, dpr
	w := int(math.Round(float64(width) * dpr))
	h := int(math.Round(float64(height) * dpr))
	s.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

// Image returns the device-pixel buffer.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Clear fills the buffer with Background.
func (s *ImageSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
}

// DrawIcon scales img into a scratch buffer and composites it with a
// uniform alpha mask.
func (s *ImageSurface) DrawIcon(img image.Image, cx, cy, size, alpha float64) {
	if img == nil || size <= 0 || alpha <= 0 {
		return
	}
	half := size * s.DPR / 2
	x0 := int(math.Round(cx*s.DPR - half))
	y0 := int(math.Round(cy*s.DPR - half))
	n := int(math.Round(size * s.DPR))
	if n <= 0 {
		return
	}
	dr := image.Rect(x0, y0, x0+n, y0+n)
	if !dr.Overlaps(s.img.Bounds()) {
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, n, n))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(math.Min(alpha, 1) * 255))})
	draw.DrawMask(s.img, dr, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}
