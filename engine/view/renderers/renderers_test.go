package renderers

import (
	"errors"
	"testing"
	"time"

	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/video"
	"github.com/hubastard/isoview/engine/video/software"
	"github.com/hubastard/isoview/engine/view"
)

type testLayer struct {
	bounds    geom.Rect
	instances []view.Instance
}

func (l *testLayer) ID() string                 { return "ground" }
func (l *testLayer) Bounds() geom.Rect          { return l.bounds }
func (l *testLayer) Instances() []view.Instance { return l.instances }

type sprite struct {
	id, image, anim string
	at              geom.DoublePoint3D
}

func (s *sprite) ID() string              { return s.id }
func (s *sprite) Location() view.Location { return view.Location{Coords: s.at} }
func (s *sprite) ImageID() string         { return s.image }
func (s *sprite) AnimationID() string     { return s.anim }

type imagePool map[string]*video.Image

func (p imagePool) Image(id string) (*video.Image, bool) {
	img, ok := p[id]
	return img, ok
}

type animPool struct {
	frames []*video.Image
	step   time.Duration
}

func (p animPool) Frame(_ string, elapsed time.Duration) (*video.Image, bool) {
	return p.frames[int(elapsed/p.step)%len(p.frames)], true
}

type label struct {
	text string
	x, y int
}

type fakeFont struct {
	labels []label
	err    error
}

func (f *fakeFont) DrawText(_ video.RenderBackend, x, y int, s string, _ colors.Color) error {
	f.labels = append(f.labels, label{s, x, y})
	return f.err
}

func (f *fakeFont) MeasureText(s string) (int, int) { return 6 * len(s), 10 }

// newFrame returns an 800x600 software backend inside a frame and a camera
// looking at cell (0,0) with 32 pixel cells.
func newFrame(t *testing.T) (*software.Backend, *view.Camera) {
	t.Helper()
	be := software.New()
	if err := be.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := be.CreateMainScreen(800, 600, 0, false); err != nil {
		t.Fatal(err)
	}
	be.StartFrame()
	t.Cleanup(func() {
		if be.InFrame() {
			_ = be.EndFrame()
		}
		be.Deinit()
	})
	return be, view.NewCamera("main", nil, be.Area(), geom.DoublePoint3D{})
}

func solid(w, h int, c colors.Color) *video.Image {
	img := video.NewImage(w, h)
	for y := range h {
		for x := range w {
			img.Pixels().SetNRGBA(x, y, c.NRGBA())
		}
	}
	return img
}

func rgba(t *testing.T, be video.RenderBackend, x, y int) [4]uint8 {
	t.Helper()
	r, g, b, a, err := be.GetPixelRGBA(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return [4]uint8{r, g, b, a}
}

func TestLayerArea(t *testing.T) {
	_, cam := newFrame(t)
	tests := []struct {
		name   string
		bounds geom.Rect
		want   geom.Rect
	}{
		{"large map", geom.NewRect(-100, -100, 200, 200), geom.NewRect(-14, -11, 29, 23)},
		{"small map", geom.NewRect(0, 0, 3, 2), geom.NewRect(0, 0, 3, 2)},
		{"off screen", geom.NewRect(50, 50, 3, 3), geom.Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayerArea(cam, &testLayer{bounds: tt.bounds}); got != tt.want {
				t.Errorf("LayerArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoordinateRenderer(t *testing.T) {
	be, cam := newFrame(t)
	font := &fakeFont{}
	r := NewCoordinateRenderer(be, 10, font)
	if r.Name() != CoordinateRendererName || r.PipelinePosition() != 10 {
		t.Errorf("stage = (%q, %d), want (%q, 10)", r.Name(), r.PipelinePosition(), CoordinateRendererName)
	}

	layer := &testLayer{bounds: geom.NewRect(0, 0, 3, 3)}
	instances := []view.Instance{
		&sprite{id: "tree", at: geom.DoublePoint3D{}},
		&sprite{id: "crate", at: geom.DoublePoint3D{X: 1.25, Y: 0.75}},
		&sprite{id: "far", at: geom.DoublePoint3D{X: 5, Y: 1}},
		&sprite{id: "behind", at: geom.DoublePoint3D{X: -0.5, Y: 2}},
	}
	if err := r.Render(cam, layer, instances); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := []label{{"0,0", 391, 295}, {"1.25,0.75", 413, 319}}
	if len(font.labels) != len(want) {
		t.Fatalf("labels = %v, want %v", font.labels, want)
	}
	for i := range want {
		if font.labels[i] != want[i] {
			t.Errorf("label %d = %v, want %v", i, font.labels[i], want[i])
		}
	}

	font.labels = nil
	if err := r.Render(cam, layer, nil); err != nil || len(font.labels) != 0 {
		t.Errorf("Render(no instances) = %v, labels %v, want nil and none", err, font.labels)
	}

	font.err = errors.New("no glyphs")
	if err := r.Render(cam, layer, instances[:1]); !errors.Is(err, font.err) {
		t.Errorf("Render() error = %v, want %v", err, font.err)
	}
}

func TestGridRenderer(t *testing.T) {
	be, cam := newFrame(t)
	r := NewGridRenderer(be, 0)
	if err := r.Render(cam, &testLayer{bounds: geom.NewRect(0, 0, 1, 1)}, nil); err != nil {
		t.Fatal(err)
	}
	gray := [4]uint8{128, 128, 128, 255}
	for _, p := range []geom.Point{{X: 400, Y: 284}, {X: 384, Y: 300}, {X: 416, Y: 316}} {
		if got := rgba(t, be, p.X, p.Y); got != gray {
			t.Errorf("outline pixel %v = %v, want %v", p, got, gray)
		}
	}
	if got := rgba(t, be, 400, 300); got != ([4]uint8{}) {
		t.Errorf("cell centre = %v, want empty", got)
	}
	if got := be.Stats().Lines; got != 4 {
		t.Errorf("Stats().Lines = %d, want 4", got)
	}
}

func TestSelectionRenderer(t *testing.T) {
	be, cam := newFrame(t)
	layer := &testLayer{bounds: geom.NewRect(0, 0, 4, 4)}
	r := NewSelectionRenderer(be, 2)
	r.Select(layer, geom.Pt(1, 0))
	r.Select(layer, geom.Pt(1, 0))
	if err := r.Render(cam, layer, nil); err != nil {
		t.Fatal(err)
	}
	if got := be.Stats().Quads; got != 1 {
		t.Errorf("Stats().Quads = %d, want 1", got)
	}
	if got := rgba(t, be, 432, 300); got != ([4]uint8{255, 255, 0, 255}) {
		t.Errorf("selected cell centre = %v, want yellow", got)
	}

	r.Deselect(layer, geom.Pt(1, 0))
	_ = r.Render(cam, layer, nil)
	if got := be.Stats().Quads; got != 1 {
		t.Errorf("Stats().Quads after Deselect = %d, want 1", got)
	}

	r.Select(layer, geom.Pt(2, 2))
	r.Select(&testLayer{}, geom.Pt(0, 0))
	r.ClearSelection()
	_ = r.Render(cam, layer, nil)
	if got := be.Stats().Quads; got != 1 {
		t.Errorf("Stats().Quads after ClearSelection = %d, want 1", got)
	}
}

func TestInstanceRenderer(t *testing.T) {
	be, cam := newFrame(t)
	r := NewInstanceRenderer(be, 5)
	var _ view.PoolConsumer = r

	red, green := solid(4, 40, colors.Red), solid(4, 40, colors.Green)
	r.SetPools(imagePool{"red": red, "green": green}, nil)

	front := &sprite{id: "front", image: "green", at: geom.DoublePoint3D{Y: 1}}
	back := &sprite{id: "back", image: "red"}
	missing := &sprite{id: "ghost", image: "nope"}
	if err := r.Render(cam, nil, []view.Instance{front, missing, back}); err != nil {
		t.Fatal(err)
	}

	// back spans y 260..299, front 292..331
	if got := rgba(t, be, 400, 270); got != ([4]uint8{255, 0, 0, 255}) {
		t.Errorf("back only pixel = %v, want red", got)
	}
	if got := rgba(t, be, 400, 295); got != ([4]uint8{0, 255, 0, 255}) {
		t.Errorf("overlap pixel = %v, want green (front drawn last)", got)
	}
	if got := rgba(t, be, 400, 300); got != ([4]uint8{0, 255, 0, 255}) {
		t.Errorf("front pixel = %v, want green", got)
	}
	if got := be.Stats().Images; got != 2 {
		t.Errorf("Stats().Images = %d, want 2", got)
	}
}

func TestInstanceRendererAnimation(t *testing.T) {
	be, cam := newFrame(t)
	r := NewInstanceRenderer(be, 5)
	frames := animPool{frames: []*video.Image{solid(2, 2, colors.Red), solid(2, 2, colors.Blue)}, step: 100 * time.Millisecond}
	r.SetPools(imagePool{"still": solid(2, 2, colors.White)}, frames)

	var now time.Duration
	r.SetClock(func() time.Duration { return now })
	walker := &sprite{id: "walker", image: "still", anim: "walk"}

	tests := []struct {
		at   time.Duration
		want [4]uint8
	}{
		{0, [4]uint8{255, 0, 0, 255}},
		{150 * time.Millisecond, [4]uint8{0, 0, 255, 255}},
		{200 * time.Millisecond, [4]uint8{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		now = tt.at
		_ = r.Render(cam, nil, []view.Instance{walker})
		if got := rgba(t, be, 399, 298); got != tt.want {
			t.Errorf("frame at %v = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestOverlayRenderer(t *testing.T) {
	be, _ := newFrame(t)
	ground, roof := &testLayer{}, &testLayer{}
	cam := view.NewCamera("hud", ground, geom.NewRect(10, 20, 200, 100), geom.DoublePoint3D{})
	cam.AddLayer(roof)

	font := &fakeFont{}
	calls := 0
	r := NewOverlayRenderer(be, 100, font, func() []string {
		calls++
		return []string{"ab", "cdef"}
	})

	if err := r.Render(cam, roof, nil); err != nil {
		t.Fatal(err)
	}
	if calls != 0 || len(font.labels) != 0 {
		t.Fatalf("drew on a secondary layer: calls %d, labels %v", calls, font.labels)
	}

	if err := r.Render(cam, ground, nil); err != nil {
		t.Fatal(err)
	}
	want := []label{{"ab", 16, 26}, {"cdef", 16, 36}}
	if len(font.labels) != len(want) || font.labels[0] != want[0] || font.labels[1] != want[1] {
		t.Errorf("labels = %v, want %v", font.labels, want)
	}

	br, bg, bb, _ := colors.DarkGray.Bytes()
	if got := rgba(t, be, 11, 21); got != ([4]uint8{br, bg, bb, 255}) {
		t.Errorf("box pixel = %v, want dark gray", got)
	}
	// box is 2*6 + 24 wide and 2*6 + 20 high
	if got := rgba(t, be, 10+37, 21); got != ([4]uint8{}) {
		t.Errorf("pixel right of the box = %v, want empty", got)
	}
}
