// Package assets loads images from disk and keeps them, and the
// animations cut from sprite sheets, in pools the render stages look up by
// id.
package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadPixels decodes a PNG, BMP, TIFF or WebP file and returns width,
// height and tightly packed straight-alpha RGBA8 pixels (row-major,
// top-left origin).
func LoadPixels(path string) (w, h int, rgba []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode %q: %w", path, err)
	}

	n := imageToNRGBA(img)
	w, h = n.Rect.Dx(), n.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, nil, fmt.Errorf("decode %q: empty %s image", path, format)
	}

	// repack in tight rows (stride == 4*w)
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], n.Pix[y*n.Stride:y*n.Stride+w*4])
	}
	return w, h, out, nil
}

func imageToNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
