package view

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"

	"github.com/hubastard/isoview/engine/geom"
)

// Camera looks at a map location and projects cell coordinates into its
// viewport on the screen. Rotation and tilt are in degrees; tilt 0 looks
// straight down, so only rotation is needed for a plain square grid and
// rotation 45 with tilt 60 gives the classic isometric diamond.
type Camera struct {
	id       string
	viewport geom.Rect
	location Location
	zoom     float64
	tilt     float64
	rotation float64
	cellW    int
	cellH    int
	enabled  bool
	layers   []Layer

	onLayersChanged func()

	m, inv matrix.Matrix
	zLift  float64
	dirty  bool
}

const (
	DefaultCellSize = 32
	minZoom         = 0.05
)

// NewCamera creates an enabled camera centred on origin in layer, with
// layer as its only active layer.
func NewCamera(id string, layer Layer, viewport geom.Rect, origin geom.DoublePoint3D) *Camera {
	c := &Camera{
		id:       id,
		viewport: viewport,
		location: Location{Layer: layer, Coords: origin},
		zoom:     1,
		cellW:    DefaultCellSize,
		cellH:    DefaultCellSize,
		enabled:  true,
		dirty:    true,
	}
	if layer != nil {
		c.layers = []Layer{layer}
	}
	return c
}

func (c *Camera) ID() string          { return c.id }
func (c *Camera) Viewport() geom.Rect { return c.viewport }
func (c *Camera) Location() Location  { return c.location }
func (c *Camera) Zoom() float64       { return c.zoom }
func (c *Camera) Tilt() float64       { return c.tilt }
func (c *Camera) Rotation() float64   { return c.rotation }
func (c *Camera) Enabled() bool       { return c.enabled }

func (c *Camera) SetEnabled(enabled bool) { c.enabled = enabled }

func (c *Camera) SetViewport(r geom.Rect) { c.viewport = r; c.dirty = true }
func (c *Camera) SetLocation(l Location)  { c.location = l; c.dirty = true }
func (c *Camera) SetTilt(deg float64)     { c.tilt = deg; c.dirty = true }
func (c *Camera) SetRotation(deg float64) { c.rotation = deg; c.dirty = true }

// Move shifts the camera origin by d cells.
func (c *Camera) Move(d geom.DoublePoint3D) {
	c.location.Coords = c.location.Coords.Add(d)
	c.dirty = true
}

func (c *Camera) SetZoom(z float64) {
	c.zoom = max(z, minZoom)
	c.dirty = true
}

// CellImageDimensions is the on-screen size of one cell at zoom 1.
func (c *Camera) CellImageDimensions() geom.Point { return geom.Pt(c.cellW, c.cellH) }

func (c *Camera) SetCellImageDimensions(w, h int) {
	c.cellW, c.cellH = w, h
	c.dirty = true
}

// ActiveLayers returns the layers this camera renders, in render order.
func (c *Camera) ActiveLayers() []Layer { return slices.Clone(c.layers) }

// AddLayer activates layer. Adding an active layer is a no-op.
func (c *Camera) AddLayer(layer Layer) {
	if layer == nil || slices.Contains(c.layers, layer) {
		return
	}
	c.layers = append(c.layers, layer)
	c.layersChanged()
}

func (c *Camera) RemoveLayer(layer Layer) {
	i := slices.Index(c.layers, layer)
	if i < 0 {
		return
	}
	c.layers = slices.Delete(c.layers, i, i+1)
	c.layersChanged()
}

func (c *Camera) layersChanged() {
	if c.onLayersChanged != nil {
		c.onLayersChanged()
	}
}

// ToScreen projects a map coordinate to a screen pixel.
func (c *Camera) ToScreen(p geom.DoublePoint3D) geom.Point {
	c.recalculate()
	x, y := c.m.Apply(p.X, p.Y)
	y -= (p.Z - c.location.Coords.Z) * c.zLift
	return geom.Pt(int(math.Round(x)), int(math.Round(y)))
}

// ToMap projects a screen pixel back to the map, on the camera's z plane.
func (c *Camera) ToMap(p geom.Point) geom.DoublePoint3D {
	c.recalculate()
	x, y := c.inv.Apply(float64(p.X), float64(p.Y))
	return geom.DoublePoint3D{X: x, Y: y, Z: c.location.Coords.Z}
}

// Matrix returns the map to screen transform of the z = origin plane.
func (c *Camera) Matrix() matrix.Matrix {
	c.recalculate()
	return c.m
}

func (c *Camera) recalculate() {
	if !c.dirty {
		return
	}
	o := c.location.Coords
	t := c.tilt * math.Pi / 180
	sx := float64(c.cellW) * c.zoom
	sy := float64(c.cellH) * c.zoom
	cx := float64(c.viewport.X) + float64(c.viewport.W)/2
	cy := float64(c.viewport.Y) + float64(c.viewport.H)/2

	// origin -> rotate -> cell scale with tilt foreshortening -> viewport centre
	c.m = matrix.Identity.
		Translate(-o.X, -o.Y).
		RotateDeg(c.rotation).
		Scale(sx, sy*math.Cos(t)).
		Translate(cx, cy)
	c.inv = matrix.Identity
	if det := c.m[0]*c.m[3] - c.m[1]*c.m[2]; math.Abs(det) >= 1e-12 {
		c.inv = c.m.Inv()
	}
	c.zLift = sy * math.Sin(t)
	c.dirty = false
}
