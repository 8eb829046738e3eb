// Package core runs the engine: it builds the render backend and the view
// from EngineSettings, drives a fixed-step update loop and renders one
// frame through the view per iteration.
package core

import (
	"time"

	"github.com/hubastard/isoview/engine/assets"
	"github.com/hubastard/isoview/engine/text"
	"github.com/hubastard/isoview/engine/video"
	"github.com/hubastard/isoview/engine/view"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine) error           // after backend, view and pools exist
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz)
	OnRender(e *Engine, alpha float64) // before the view renders, alpha in [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before teardown
}

// Engine exposes core services to the App.
type Engine struct {
	Settings   EngineSettings
	Backend    video.RenderBackend
	Window     Window // nil for headless backends
	View       *view.View
	Images     *assets.ImagePool
	Animations *assets.AnimationPool
	Font       *text.Font
	Input      *Input
	Layers     LayerStack

	start  time.Time
	frames int
	quit   bool
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Frames is the number of frames rendered so far.
func (e *Engine) Frames() int { return e.frames }

// Quit ends the loop after the current frame.
func (e *Engine) Quit()               { e.quit = true }
func (e *Engine) QuitRequested() bool { return e.quit }

// PushLayer attaches l on top of the layer stack.
func (e *Engine) PushLayer(l Layer) {
	e.Layers.Push(l)
	l.OnAttach(e)
}

// Window is implemented by backends that own an OS window or a terminal.
type Window interface {
	PollEvents()
	ShouldClose() bool
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Event model (can expand over time).
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)
