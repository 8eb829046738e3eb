package core

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/video"
	"github.com/hubastard/isoview/engine/video/software"
	"github.com/hubastard/isoview/engine/view"
)

type testApp struct {
	quitAfter int
	startErr  error
	onStart   func(e *Engine)

	started, shutdown bool
	renders           int
	events            []Event
	calls             *[]string
}

func (a *testApp) OnStart(e *Engine) error {
	a.started = true
	if a.onStart != nil {
		a.onStart(e)
	}
	return a.startErr
}

func (a *testApp) OnUpdate(*Engine, float64) {}

func (a *testApp) OnRender(e *Engine, _ float64) {
	a.renders++
	if a.quitAfter > 0 && a.renders >= a.quitAfter {
		e.Quit()
	}
}

func (a *testApp) OnEvent(_ *Engine, ev Event) { a.events = append(a.events, ev) }

func (a *testApp) OnShutdown(*Engine) {
	a.shutdown = true
	if a.calls != nil {
		*a.calls = append(*a.calls, "app shutdown")
	}
}

type testLayer struct {
	name    string
	calls   *[]string
	handles Key
}

func (l *testLayer) OnAttach(*Engine)          { *l.calls = append(*l.calls, l.name+" attach") }
func (l *testLayer) OnDetach(*Engine)          { *l.calls = append(*l.calls, l.name+" detach") }
func (l *testLayer) OnUpdate(*Engine, float64) {}
func (l *testLayer) OnRender(*Engine, float64) {}

func (l *testLayer) OnEvent(_ *Engine, ev Event) bool {
	k, ok := ev.(EventKey)
	return ok && l.handles != KeyUnknown && k.Key == l.handles
}

type mapLayer struct{}

func (mapLayer) ID() string                 { return "ground" }
func (mapLayer) Bounds() geom.Rect          { return geom.NewRect(0, 0, 4, 4) }
func (mapLayer) Instances() []view.Instance { return nil }

type lostStage struct{ view.RendererBase }

func (s *lostStage) Render(*view.Camera, view.Layer, []view.Instance) error {
	return fmt.Errorf("%w: surface lost", video.ErrBackendFatal)
}

func headless() EngineSettings {
	s := DefaultSettings()
	s.SetScreenWidth(64)
	s.SetScreenHeight(48)
	s.SetFrameRateLimit(0)
	return s
}

func TestRunHeadless(t *testing.T) {
	var calls []string
	app := &testApp{quitAfter: 3, calls: &calls}
	var eng *Engine
	app.onStart = func(e *Engine) {
		eng = e
		e.PushLayer(&testLayer{name: "bottom", calls: &calls})
		e.PushLayer(&testLayer{name: "top", calls: &calls})
	}

	if err := Run(app, headless()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !app.started || !app.shutdown {
		t.Errorf("started, shutdown = %v, %v, want true, true", app.started, app.shutdown)
	}
	if app.renders != 3 || eng.Frames() != 3 {
		t.Errorf("renders, frames = %d, %d, want 3, 3", app.renders, eng.Frames())
	}
	if eng.Window != nil {
		t.Error("headless backend exposed a window")
	}
	want := []string{"bottom attach", "top attach", "app shutdown", "top detach", "bottom detach"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if eng.Backend.Stats().Frames != 3 {
		t.Errorf("backend frames = %d, want 3", eng.Backend.Stats().Frames)
	}
}

func TestRunStops(t *testing.T) {
	t.Run("invalid settings", func(t *testing.T) {
		app := &testApp{}
		if err := Run(app, EngineSettings{}); !errors.Is(err, ErrNotSet) {
			t.Errorf("Run() = %v, want ErrNotSet", err)
		}
		if app.started {
			t.Error("app started with invalid settings")
		}
	})

	t.Run("start error", func(t *testing.T) {
		boom := errors.New("boom")
		app := &testApp{startErr: boom}
		if err := Run(app, headless()); !errors.Is(err, boom) {
			t.Errorf("Run() = %v, want %v", err, boom)
		}
		if app.renders != 0 || app.shutdown {
			t.Errorf("renders, shutdown = %d, %v, want 0, false", app.renders, app.shutdown)
		}
	})

	t.Run("fatal frame", func(t *testing.T) {
		app := &testApp{quitAfter: 100}
		app.onStart = func(e *Engine) {
			if _, err := e.View.AddCamera("main", mapLayer{}, geom.NewRect(0, 0, 64, 48), geom.DoublePoint3D{}); err != nil {
				t.Fatal(err)
			}
			e.View.AddRenderer(&lostStage{RendererBase: view.NewRendererBase("lost", 0)})
		}
		err := Run(app, headless())
		if !errors.Is(err, video.ErrBackendFatal) {
			t.Fatalf("Run() = %v, want ErrBackendFatal", err)
		}
		if app.renders != 1 || !app.shutdown {
			t.Errorf("renders, shutdown = %d, %v, want 1, true", app.renders, app.shutdown)
		}
	})
}

type fakeWindow struct {
	*software.Backend
	cb     func(Event)
	queue  []Event
	title  string
	polled int
}

func (w *fakeWindow) PollEvents() {
	w.polled++
	q := w.queue
	w.queue = nil
	for _, ev := range q {
		w.cb(ev)
	}
}

func (w *fakeWindow) ShouldClose() bool               { return false }
func (w *fakeWindow) FramebufferSize() (int, int)     { return w.Width(), w.Height() }
func (w *fakeWindow) SetTitle(title string)           { w.title = title }
func (w *fakeWindow) SetEventCallback(cb func(Event)) { w.cb = cb }

func TestRunWindowEvents(t *testing.T) {
	win := &fakeWindow{Backend: software.New()}
	video.Register("fakewindow", func() video.RenderBackend { return win })
	t.Cleanup(func() { video.Unregister("fakewindow") })

	win.queue = []Event{
		EventKey{Key: KeyW, Down: true},
		EventKey{Key: KeySpace, Down: true},
		EventCloseRequested{},
	}

	var calls []string
	app := &testApp{calls: &calls}
	var eng *Engine
	app.onStart = func(e *Engine) {
		eng = e
		e.PushLayer(&testLayer{name: "hud", calls: &calls, handles: KeySpace})
	}

	s := headless()
	if err := s.SetRenderBackend("fakewindow"); err != nil {
		t.Fatal(err)
	}
	s.SetWindowTitle("demo")
	if err := Run(app, s); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if win.title != "demo" {
		t.Errorf("title = %q, want demo", win.title)
	}
	if app.renders != 1 || win.polled != 1 {
		t.Errorf("renders, polls = %d, %d, want 1, 1", app.renders, win.polled)
	}
	if !eng.Input.IsKeyDown(KeyW) || !eng.Input.IsKeyDown(KeySpace) {
		t.Error("input did not record the pressed keys")
	}
	want := []Event{EventKey{Key: KeyW, Down: true}, EventCloseRequested{}}
	if !slices.Equal(app.events, want) {
		t.Errorf("app events = %v, want %v", app.events, want)
	}
}
