package view

import (
	"math"
	"slices"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/hubastard/isoview/engine/geom"
)

func TestCameraToScreen(t *testing.T) {
	layer := &testLayer{id: "ground"}
	tests := []struct {
		name  string
		setup func(c *Camera)
		in    geom.DoublePoint3D
		want  geom.Point
	}{
		{"origin at centre", nil, geom.DoublePoint3D{}, geom.Pt(400, 300)},
		{"one cell right", nil, geom.DoublePoint3D{X: 1}, geom.Pt(432, 300)},
		{"one cell down", nil, geom.DoublePoint3D{Y: 1}, geom.Pt(400, 332)},
		{"zoom 2", func(c *Camera) { c.SetZoom(2) }, geom.DoublePoint3D{X: 1}, geom.Pt(464, 300)},
		{"moved origin", func(c *Camera) { c.Move(geom.DoublePoint3D{X: 2, Y: 1}) }, geom.DoublePoint3D{X: 2, Y: 1}, geom.Pt(400, 300)},
		{"rotated 90", func(c *Camera) { c.SetRotation(90) }, geom.DoublePoint3D{X: 1}, geom.Pt(400, 332)},
		{"tilt 60", func(c *Camera) { c.SetTilt(60) }, geom.DoublePoint3D{Y: 2}, geom.Pt(400, 332)},
		{"isometric", func(c *Camera) { c.SetRotation(45); c.SetTilt(60) }, geom.DoublePoint3D{X: 1}, geom.Pt(423, 311)},
		{"height", func(c *Camera) { c.SetTilt(60) }, geom.DoublePoint3D{Z: 1}, geom.Pt(400, 272)},
		{"cell size", func(c *Camera) { c.SetCellImageDimensions(64, 16) }, geom.DoublePoint3D{X: 1, Y: 1}, geom.Pt(464, 316)},
		{"offset viewport", func(c *Camera) { c.SetViewport(geom.NewRect(100, 50, 200, 100)) }, geom.DoublePoint3D{}, geom.Pt(200, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera("main", layer, geom.NewRect(0, 0, 800, 600), geom.DoublePoint3D{})
			if tt.setup != nil {
				tt.setup(c)
			}
			if got := c.ToScreen(tt.in); got != tt.want {
				t.Errorf("ToScreen(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCameraToMapInvertsToScreen(t *testing.T) {
	c := NewCamera("main", nil, geom.NewRect(0, 0, 800, 600), geom.DoublePoint3D{X: 3, Y: -2})
	c.SetRotation(45)
	c.SetTilt(60)
	c.SetZoom(1.5)

	if got := c.ToMap(geom.Pt(400, 300)); math.Abs(got.X-3) > 1e-9 || math.Abs(got.Y+2) > 1e-9 {
		t.Errorf("ToMap(viewport centre) = %v, want (3:-2:0)", got)
	}
	for _, p := range []geom.DoublePoint3D{{X: 0, Y: 0}, {X: 5, Y: 7}, {X: -4, Y: 2}} {
		got := c.ToMap(c.ToScreen(p))
		// ToScreen rounds to whole pixels
		if math.Abs(got.X-p.X) > 0.1 || math.Abs(got.Y-p.Y) > 0.1 {
			t.Errorf("ToMap(ToScreen(%v)) = %v", p, got)
		}
	}
}

func TestCameraMatrix(t *testing.T) {
	c := NewCamera("main", nil, geom.NewRect(0, 0, 800, 600), geom.DoublePoint3D{X: 1, Y: 2})
	c.SetRotation(30)
	c.SetZoom(2)

	want := matrix.Translate(-1, -2).Mul(matrix.RotateDeg(30)).Mul(matrix.Scale(64, 64)).Mul(matrix.Translate(400, 300))
	got := c.Matrix()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("Matrix() = %v, want %v", got, want)
		}
	}
	x, y := got.Apply(4, -1)
	if p := c.ToScreen(geom.DoublePoint3D{X: 4, Y: -1}); p != geom.Pt(int(math.Round(x)), int(math.Round(y))) {
		t.Errorf("ToScreen() = %v, want Matrix().Apply() = (%v, %v)", p, x, y)
	}

	// a 90 degree tilt flattens the map onto a line
	c.SetTilt(90)
	if got := c.ToMap(geom.Pt(5, 7)); got != (geom.DoublePoint3D{X: 5, Y: 7}) {
		t.Errorf("ToMap() with singular transform = %v, want (5:7:0)", got)
	}
}

func TestCameraSettings(t *testing.T) {
	ground := &testLayer{id: "ground"}
	c := NewCamera("main", ground, geom.NewRect(0, 0, 10, 10), geom.DoublePoint3D{})

	if !c.Enabled() || c.Zoom() != 1 {
		t.Errorf("new camera enabled=%v zoom=%v, want true and 1", c.Enabled(), c.Zoom())
	}
	if got := c.CellImageDimensions(); got != geom.Pt(DefaultCellSize, DefaultCellSize) {
		t.Errorf("CellImageDimensions() = %v, want %d square", got, DefaultCellSize)
	}
	c.SetZoom(0)
	if got := c.Zoom(); got != minZoom {
		t.Errorf("Zoom() after SetZoom(0) = %v, want %v", got, minZoom)
	}
	if got := c.Location().Layer; got != Layer(ground) {
		t.Errorf("Location().Layer = %v, want ground", got)
	}

	roof := &testLayer{id: "roof"}
	c.AddLayer(roof)
	c.AddLayer(roof)
	c.AddLayer(nil)
	if got := c.ActiveLayers(); !slices.Equal(got, []Layer{ground, roof}) {
		t.Errorf("ActiveLayers() = %v, want [ground roof]", got)
	}
	c.RemoveLayer(ground)
	c.RemoveLayer(ground)
	if got := c.ActiveLayers(); !slices.Equal(got, []Layer{roof}) {
		t.Errorf("ActiveLayers() = %v, want [roof]", got)
	}
}
