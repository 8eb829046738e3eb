package core

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/hubastard/isoview/engine/assets"
	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/profiler"
	"github.com/hubastard/isoview/engine/text"
	"github.com/hubastard/isoview/engine/video"
	"github.com/hubastard/isoview/engine/view"
)

const (
	tick    = time.Second / 60
	maxStep = 10 // prevent spiral of death
)

// Run builds the backend named in settings, opens the main screen and
// executes the main loop until Engine.Quit is called or the window closes.
// Teardown runs in reverse order of construction.
func Run(app App, settings EngineSettings) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := settings.Validate(); err != nil {
		return err
	}
	be, err := video.New(settings.RenderBackend())
	if err != nil {
		return err
	}
	if err := be.Init(); err != nil {
		return fmt.Errorf("init %s: %w", be.Name(), err)
	}
	defer be.Deinit()

	be.SetAlphaOptimizerEnabled(settings.SDLRemoveFakeAlpha())
	if _, err := be.CreateMainScreen(settings.ScreenWidth(), settings.ScreenHeight(),
		settings.BitsPerPixel(), settings.FullScreen()); err != nil {
		return fmt.Errorf("main screen: %w", err)
	}

	font, err := loadFont(settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := font.Close(); err != nil {
			logging.Logger().Warn("closing font failed", "err", err)
		}
	}()

	images := assets.NewImagePool(be, "")
	eng := &Engine{
		Settings:   settings,
		Backend:    be,
		View:       view.New(be),
		Images:     images,
		Animations: assets.NewAnimationPool(images),
		Font:       font,
		Input:      NewInput(),
		start:      time.Now(),
	}
	defer func() {
		if err := eng.View.Close(); err != nil {
			logging.Logger().Warn("closing view failed", "err", err)
		}
	}()

	if win, ok := be.(Window); ok {
		eng.Window = win
		win.SetTitle(settings.WindowTitle())
		win.SetEventCallback(func(ev Event) { eng.dispatch(app, ev) })
	}

	if err := app.OnStart(eng); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() {
		app.OnShutdown(eng)
		for l, ok := eng.Layers.Pop(); ok; l, ok = eng.Layers.Pop() {
			l.OnDetach(eng)
		}
		logging.Logger().Info("engine exit", "frames", eng.frames, "uptime", eng.Uptime())
	}()

	return eng.loop(app)
}

func loadFont(s EngineSettings) (*text.Font, error) {
	if s.DefaultFontPath() == "" {
		return text.DefaultFont(s.DefaultFontSize(), s.DefaultFontGlyphs())
	}
	f, err := text.LoadFont(s.DefaultFontPath(), s.DefaultFontSize(), s.DefaultFontGlyphs())
	if err != nil {
		return nil, fmt.Errorf("default font: %w", err)
	}
	return f, nil
}

// loop is the fixed-timestep (60 Hz) update with interpolation. Only
// fatal backend errors end it early; other frame errors are logged.
func (e *Engine) loop(app App) error {
	var budget time.Duration
	if fps := e.Settings.FrameRateLimit(); fps > 0 {
		budget = time.Second / time.Duration(fps)
	}

	var (
		accum time.Duration
		prev  = time.Now()
	)
	for !e.quit && (e.Window == nil || !e.Window.ShouldClose()) {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		if e.Window != nil {
			e.Window.PollEvents()
		}

		steps := 0
		for accum >= tick && steps < maxStep {
			dt := tick.Seconds()
			app.OnUpdate(e, dt)
			e.Layers.ForEach(func(l Layer) { l.OnUpdate(e, dt) })
			accum -= tick
			steps++
		}
		if steps > 0 {
			e.Input.ClearPressed()
		}
		alpha := float64(accum) / float64(tick)

		if err := e.frame(app, alpha); err != nil {
			if errors.Is(err, video.ErrBackendFatal) {
				return err
			}
			logging.Logger().Warn("frame rendered with errors", "frame", e.frames, "err", err)
		}

		if budget > 0 {
			if rest := budget - time.Since(now); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	return nil
}

func (e *Engine) frame(app App, alpha float64) error {
	defer profiler.Start("frame")()
	app.OnRender(e, alpha)
	e.Layers.ForEach(func(l Layer) { l.OnRender(e, alpha) })
	err := e.View.Update(e.Images, e.Animations)
	e.frames++
	return err
}

// dispatch feeds window events to the input state, then to the layers top
// to bottom and last to the app, stopping at the first layer that handles
// the event.
func (e *Engine) dispatch(app App, ev Event) {
	e.Input.Handle(ev)
	switch ev := ev.(type) {
	case EventCloseRequested:
		e.Quit()
	case EventResize:
		logging.Logger().Debug("window resized", "w", ev.W, "h", ev.H)
	}

	handled := false
	e.Layers.ForEachReverse(func(l Layer) bool {
		handled = l.OnEvent(e, ev)
		return handled
	})
	if !handled {
		app.OnEvent(e, ev)
	}
}
