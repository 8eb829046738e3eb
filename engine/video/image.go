package video

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/hubastard/isoview/engine/geom"
)

// Image is a block of 8-bit straight-alpha RGBA pixels owned by a backend.
// Callers get non-owning references.
type Image struct {
	pix *image.NRGBA
}

// NewImage allocates a transparent w x h image.
func NewImage(w, h int) *Image {
	return &Image{pix: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// newImageFromRGBA copies tightly packed RGBA8 rows (R, G, B, A, top-left
// origin, stride 4*w) into a new image. Every backend uses this layout.
func newImageFromRGBA(data []byte, w, h int) (*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidImageData, w, h)
	}
	if len(data) != w*h*4 {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d, want %d", ErrInvalidImageData, len(data), w, h, w*h*4)
	}
	img := NewImage(w, h)
	copy(img.pix.Pix, data)
	return img, nil
}

// newImageFromSurface adopts an NRGBA surface anchored at the origin and
// converts anything else.
func newImageFromSurface(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidImageData)
	}
	if m, ok := src.(*image.NRGBA); ok && m.Rect.Min == (image.Point{}) {
		return &Image{pix: m}, nil
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty surface", ErrInvalidImageData)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{pix: dst}, nil
}

func (i *Image) Width() int  { return i.pix.Rect.Dx() }
func (i *Image) Height() int { return i.pix.Rect.Dy() }

// Area is the image rectangle in its own coordinates, always at (0,0).
func (i *Image) Area() geom.Rect { return geom.NewRect(0, 0, i.Width(), i.Height()) }

// Pixels exposes the backing store. Sub-images share it and have a non-zero
// Rect.Min.
func (i *Image) Pixels() *image.NRGBA { return i.pix }

// SubImage returns a view of r (clamped to the image) sharing pixel memory.
func (i *Image) SubImage(r geom.Rect) *Image {
	r = r.Intersect(i.Area())
	o := i.pix.Rect.Min
	rr := image.Rect(o.X+r.X, o.Y+r.Y, o.X+r.Right(), o.Y+r.Bottom())
	return &Image{pix: i.pix.SubImage(rr).(*image.NRGBA)}
}

// PixelRGBA reads the pixel at (x, y) in image coordinates.
func (i *Image) PixelRGBA(x, y int) (r, g, b, a uint8, err error) {
	if !i.Area().Contains(geom.Pt(x, y)) {
		return 0, 0, 0, 0, fmt.Errorf("%w: (%d,%d) outside %v", ErrOutOfBounds, x, y, i.Area())
	}
	off := i.offset(x, y)
	p := i.pix.Pix[off : off+4 : off+4]
	return p[0], p[1], p[2], p[3], nil
}

func (i *Image) offset(x, y int) int {
	return i.pix.PixOffset(i.pix.Rect.Min.X+x, i.pix.Rect.Min.Y+y)
}
