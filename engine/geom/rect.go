package geom

import "fmt"

// Rect is an integer rectangle anchored at its top-left corner.
type Rect struct {
	X, Y int // top-left
	W, H int
}

func NewRect(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Right() int     { return r.X + r.W }
func (r Rect) Bottom() int    { return r.Y + r.H }
func (r Rect) Origin() Point  { return Point{r.X, r.Y} }
func (r Rect) IsEmpty() bool  { return r.W <= 0 || r.H <= 0 }
func (r Rect) String() string { return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.W, r.H) }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive, so a WxH rect contains exactly W*H pixels.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).IsEmpty()
}

// Intersect returns the overlap of r and o, or the zero Rect when they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
