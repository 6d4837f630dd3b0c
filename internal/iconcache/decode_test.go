package iconcache

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestDecodeFitsSquare(t *testing.T) {
	img, err := Decode(pngBytes(t, 40, 20, color.NRGBA{0, 0, 255, 255}), 16)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("bounds %v, want 16×16", b)
	}
	if a := img.NRGBAAt(8, 0).A; a != 0 {
		t.Fatalf("letterbox alpha %d, want 0", a)
	}
	if c := img.NRGBAAt(8, 8); c.A != 255 || c.B < 250 {
		t.Fatalf("centre pixel %v, want opaque blue", c)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image"), 16); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Decode(nil, 16); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestWebPRoundTrip(t *testing.T) {
	src, err := Decode(pngBytes(t, 8, 8, color.NRGBA{10, 200, 30, 255}), 0)
	if err != nil {
		t.Fatal(err)
	}
	data, err := EncodeWebP(src)
	if err != nil {
		t.Fatalf("EncodeWebP: %v", err)
	}
	got, err := Decode(data, 0)
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if got.NRGBAAt(4, 4) != src.NRGBAAt(4, 4) {
		t.Fatalf("pixel %v, want %v", got.NRGBAAt(4, 4), src.NRGBAAt(4, 4))
	}
}

// tgaBytes builds an uncompressed 32-bit top-left TGA filled with c.
func tgaBytes(w, h int, c color.NRGBA) []byte {
	// No id or colour map, true-colour, 32 bits with 8 alpha bits and a
	// top-left origin.
	hdr := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	hdr = append(hdr, byte(w), byte(w>>8), byte(h), byte(h>>8), 32, 0x28)
	for i := 0; i < w*h; i++ {
		hdr = append(hdr, c.B, c.G, c.R, c.A)
	}
	return hdr
}

func TestDecodeFormats(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 200, 40, 40, 255
	}
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	webpData, err := EncodeWebP(src)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"png", pngBytes(t, 8, 8, color.NRGBA{200, 40, 40, 255})},
		{"jpeg", jpg.Bytes()},
		{"webp", webpData},
		{"tga", tgaBytes(8, 8, color.NRGBA{200, 40, 40, 255})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.data, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
				t.Fatalf("bounds %v, want 8×8", b)
			}
			c := img.NRGBAAt(4, 4)
			if c.A != 255 || c.R < 180 || c.G > 70 || c.B > 70 {
				t.Fatalf("pixel %v, want opaque red", c)
			}
		})
	}
}
