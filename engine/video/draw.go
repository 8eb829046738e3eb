package video

import (
	"image"
	"image/draw"
	"math"
	"slices"

	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
)

// PutPixel writes one opaque pixel. It reports false when (x, y) is outside
// the clip area and nothing was written.
func (b *Base) PutPixel(x, y int, r, g, bl uint8) bool {
	b.requireFrame("PutPixel")
	b.stats.Pixels++
	return b.plot(b.clip.Top(), x, y, r, g, bl)
}

// GetPixelRGBA reads a screen pixel. Reads ignore the clip area but fail
// with ErrOutOfBounds outside the screen.
func (b *Base) GetPixelRGBA(x, y int) (r, g, bl, a uint8, err error) {
	if b.screen == nil {
		return 0, 0, 0, 0, ErrNoScreen
	}
	return b.screen.PixelRGBA(x, y)
}

// DrawLine draws a one pixel wide line from p1 to p2, both ends included.
func (b *Base) DrawLine(p1, p2 geom.Point, r, g, bl uint8) {
	b.requireFrame("DrawLine")
	b.stats.Lines++

	clip := b.clip.Top()
	if clip.IsEmpty() {
		return
	}

	// Bresenham
	dx := abs(p2.X - p1.X)
	dy := -abs(p2.Y - p1.Y)
	sx, sy := 1, 1
	if p1.X > p2.X {
		sx = -1
	}
	if p1.Y > p2.Y {
		sy = -1
	}
	e := dx + dy
	x, y := p1.X, p1.Y
	for {
		b.plot(clip, x, y, r, g, bl)
		if x == p2.X && y == p2.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawQuad fills the polygon p1-p2-p3-p4. A pixel is covered when its
// centre lies inside the polygon.
func (b *Base) DrawQuad(p1, p2, p3, p4 geom.Point, r, g, bl uint8) {
	b.requireFrame("DrawQuad")
	b.stats.Quads++

	clip := b.clip.Top()
	if clip.IsEmpty() {
		return
	}
	poly := [4]geom.Point{p1, p2, p3, p4}
	minY, maxY := p1.Y, p1.Y
	for _, p := range poly[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	minY = max(minY, clip.Y)
	maxY = min(maxY, clip.Bottom()-1)

	xs := make([]float64, 0, 4)
	for y := minY; y <= maxY; y++ {
		cy := float64(y) + 0.5
		xs = xs[:0]
		for i, a := range poly {
			c := poly[(i+1)%len(poly)]
			ay, cyv := float64(a.Y), float64(c.Y)
			if (ay <= cy && cy < cyv) || (cyv <= cy && cy < ay) {
				t := (cy - ay) / (cyv - ay)
				xs = append(xs, float64(a.X)+t*float64(c.X-a.X))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := max(int(math.Ceil(xs[i]-0.5)), clip.X)
			x1 := min(int(math.Ceil(xs[i+1]-0.5)), clip.Right())
			for x := x0; x < x1; x++ {
				b.set(x, y, r, g, bl, 255)
			}
		}
	}
}

// DrawImage blends img onto the screen with its top-left corner at dst.
// Straight alpha "source over": opaque source pixels replace the screen,
// transparent ones leave it untouched. The alpha optimizer only short-cuts
// those two cases.
func (b *Base) DrawImage(img *Image, dst geom.Point) {
	b.requireFrame("DrawImage")
	b.stats.Images++
	if img == nil {
		return
	}

	target := geom.NewRect(dst.X, dst.Y, img.Width(), img.Height()).Intersect(b.clip.Top())
	if target.IsEmpty() {
		return
	}
	spix, dpix := img.pix.Pix, b.screen.pix.Pix
	for y := target.Y; y < target.Bottom(); y++ {
		so := img.offset(target.X-dst.X, y-dst.Y)
		do := b.screen.offset(target.X, y)
		for x := target.X; x < target.Right(); x++ {
			s := spix[so : so+4 : so+4]
			d := dpix[do : do+4 : do+4]
			so += 4
			do += 4
			if b.alphaOpt {
				switch s[3] {
				case 255:
					copy(d, s)
					continue
				case 0:
					continue
				}
			}
			blend(d, s)
		}
	}
}

// blend composes straight-alpha s over d in place.
func blend(d, s []byte) {
	sa := uint32(s[3])
	dw := uint32(d[3]) * (255 - sa) / 255
	outA := sa + dw
	if outA == 0 {
		return
	}
	for c := range 3 {
		d[c] = uint8((uint32(s[c])*sa + uint32(d[c])*dw) / outA)
	}
	d[3] = uint8(outA)
}

func (b *Base) plot(clip geom.Rect, x, y int, r, g, bl uint8) bool {
	if !clip.Contains(geom.Pt(x, y)) {
		return false
	}
	b.set(x, y, r, g, bl, 255)
	return true
}

func (b *Base) set(x, y int, r, g, bl, a uint8) {
	o := b.screen.offset(x, y)
	p := b.screen.pix.Pix[o : o+4 : o+4]
	p[0], p[1], p[2], p[3] = r, g, bl, a
}

func (b *Base) fill(r geom.Rect, c colors.Color) {
	if b.screen == nil || r.IsEmpty() {
		return
	}
	o := b.screen.pix.Rect.Min
	rr := image.Rect(o.X+r.X, o.Y+r.Y, o.X+r.Right(), o.Y+r.Bottom())
	draw.Draw(b.screen.pix, rr, image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
