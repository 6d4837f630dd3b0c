package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenSurface draws icons onto an offscreen ebiten image in device
// pixels. Icon textures are uploaded once per decoded image.
type ebitenSurface struct {
	target     *ebiten.Image
	dpr        float64
	background color.Color
	textures   map[image.Image]*ebiten.Image
}

func newEbitenSurface(bg color.Color) *ebitenSurface {
	return &ebitenSurface{
		dpr:        1,
		background: bg,
		textures:   make(map[image.Image]*ebiten.Image),
	}
}

func (s *ebitenSurface) Resize(width, height int, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	w := max(int(math.Round(float64(width)*dpr)), 1)
	h := max(int(math.Round(float64(height)*dpr)), 1)
	s.dpr = dpr
	if s.target != nil {
		if b := s.target.Bounds(); b.Dx() == w && b.Dy() == h {
			return
		}
		s.target.Deallocate()
	}
	s.target = ebiten.NewImage(w, h)
}

func (s *ebitenSurface) Clear() {
	if s.target != nil {
		s.target.Fill(s.background)
	}
}

func (s *ebitenSurface) DrawIcon(img image.Image, cx, cy, size, alpha float64) {
	if s.target == nil {
		return
	}
	tex, ok := s.textures[img]
	if !ok {
		tex = ebiten.NewImageFromImage(img)
		s.textures[img] = tex
	}
	b := tex.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size*s.dpr/float64(b.Dx()), size*s.dpr/float64(b.Dy()))
	op.GeoM.Translate((cx-size/2)*s.dpr, (cy-size/2)*s.dpr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	s.target.DrawImage(tex, op)
}
