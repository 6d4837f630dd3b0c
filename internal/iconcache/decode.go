package iconcache

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// decodeImage picks the decoder by magic bytes. TGA has no signature and is
// tried last. The tga package registers an empty magic with image.Decode,
// which would claim every input.
func decodeImage(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return png.Decode(r)
	case bytes.HasPrefix(data, jpegMagic):
		return jpeg.Decode(r)
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return webp.Decode(r)
	default:
		return tga.Decode(r)
	}
}

// Decode decodes PNG, JPEG, TGA or WebP bytes and fits the result into a
// size×size square. A non-positive size keeps the source dimensions.
func Decode(data []byte, size int) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("iconcache: decode: empty data")
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("iconcache: decode: %w", err)
	}
	n := toNRGBA(img)
	if size > 0 {
		n = fit(n, size)
	}
	return n, nil
}

// EncodeWebP encodes img as lossless WebP for the persistent cache.
func EncodeWebP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("iconcache: webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	return dst
}

// fit scales img so its longer side equals size and centers it on a
// transparent size×size canvas. Scaling runs on premultiplied alpha so
// transparent edges do not pick up dark halos.
func fit(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == size && h == size {
		return img
	}
	if w == 0 || h == 0 {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}

	scale := float64(size) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale+0.5))
	dh := max(1, int(float64(h)*scale+0.5))
	off := image.Pt((size-dw)/2, (size-dh)/2)

	// image.RGBA is premultiplied; drawing the NRGBA source into it converts.
	premul := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(premul, image.Rectangle{Min: off, Max: off.Add(image.Pt(dw, dh))}, img, b, draw.Src, nil)

	out := image.NewNRGBA(premul.Bounds())
	draw.Draw(out, out.Bounds(), premul, image.Point{}, draw.Src)
	return out
}
