// Package terminal presents the main screen in a text terminal through
// tcell. Every cell shows two pixel rows with the upper half block glyph:
// the foreground is the upper pixel and the background the lower one. The
// screen is scaled to the terminal by nearest sampling.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hubastard/isoview/engine/core"
	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/video"
)

const Name = "terminal"

const halfBlock = '▀'

// KeyHold is how long a key counts as down after its last press.
// Terminals report no releases, only repeats.
var KeyHold = 150 * time.Millisecond

func init() {
	video.Register(Name, func() video.RenderBackend { return New(nil) })
}

type Backend struct {
	video.Base
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	onEv   func(core.Event)
	held   map[core.Key]time.Time
	title  string
	closed bool
}

// New returns a backend drawing to screen. A nil screen opens the process
// terminal in Init.
func New(screen tcell.Screen) *Backend {
	return &Backend{
		Base:   video.NewBase(Name),
		screen: screen,
		held:   make(map[core.Key]time.Time),
	}
}

func (b *Backend) Init() error {
	if b.Initialized() {
		return nil
	}
	if b.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("%w: terminal: %w", video.ErrBackendFatal, err)
		}
		b.screen = s
	}
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("%w: terminal: %w", video.ErrBackendFatal, err)
	}
	b.screen.HideCursor()
	b.closed = false
	b.events = make(chan tcell.Event, 100)
	b.quit = make(chan struct{})
	go b.pump(b.screen, b.events, b.quit)
	return b.Base.Init()
}

// pump forwards terminal events until the screen is finalized.
func (b *Backend) pump(s tcell.Screen, out chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := s.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-quit:
			return
		}
	}
}

func (b *Backend) Deinit() {
	if !b.Initialized() {
		return
	}
	close(b.quit)
	b.screen.Fini()
	b.Base.Deinit()
}

// Screen is the tcell screen in use, nil before Init when none was given.
func (b *Backend) Screen() tcell.Screen { return b.screen }

func (b *Backend) EndFrame() error {
	err := b.Base.EndFrame()
	b.present()
	return err
}

func (b *Backend) present() {
	img := b.ScreenImage()
	cols, rows := b.screen.Size()
	if img == nil || cols <= 0 || rows <= 0 {
		return
	}
	sw, sh := img.Width(), img.Height()
	for cy := 0; cy < rows; cy++ {
		top := (2 * cy) * sh / (2 * rows)
		bot := (2*cy + 1) * sh / (2 * rows)
		for cx := 0; cx < cols; cx++ {
			sx := cx * sw / cols
			style := tcell.StyleDefault.
				Foreground(cellColor(img, sx, top)).
				Background(cellColor(img, sx, bot))
			b.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	b.screen.Show()
}

// cellColor composes the pixel over black.
func cellColor(img *video.Image, x, y int) tcell.Color {
	r, g, bl, a, err := img.PixelRGBA(x, y)
	if err != nil {
		return tcell.ColorBlack
	}
	scale := func(c uint8) int32 { return int32(c) * int32(a) / 255 }
	return tcell.NewRGBColor(scale(r), scale(g), scale(bl))
}

// core.Window impl

func (b *Backend) ShouldClose() bool                    { return b.closed }
func (b *Backend) SetTitle(t string)                    { b.title = t }
func (b *Backend) Title() string                        { return b.title }
func (b *Backend) SetEventCallback(cb func(core.Event)) { b.onEv = cb }

func (b *Backend) FramebufferSize() (int, int) {
	if b.screen == nil {
		return 0, 0
	}
	return b.screen.Size()
}

// PollEvents translates the events queued since the last call and
// releases keys that stopped repeating.
func (b *Backend) PollEvents() {
	for done := false; !done; {
		select {
		case ev := <-b.events:
			b.translate(ev)
		default:
			done = true
		}
	}
	now := time.Now()
	for k, at := range b.held {
		if now.Sub(at) >= KeyHold {
			delete(b.held, k)
			b.emit(core.EventKey{Key: k, Down: false})
		}
	}
}

func (b *Backend) translate(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			b.closed = true
			b.emit(core.EventCloseRequested{})
			return
		}
		k := translateKey(ev)
		if k == core.KeyUnknown {
			return
		}
		_, down := b.held[k]
		b.held[k] = time.Now()
		if !down {
			b.emit(core.EventKey{Key: k, Down: true, Mods: translateMods(ev.Modifiers())})
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		b.screen.Sync()
		logging.Logger().Debug("terminal resized", "cols", w, "rows", h)
		b.emit(core.EventResize{W: w, H: h})
	}
}

func (b *Backend) emit(ev core.Event) {
	if b.onEv != nil {
		b.onEv(ev)
	}
}

func translateKey(ev *tcell.EventKey) core.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return core.KeyUp
	case tcell.KeyDown:
		return core.KeyDown
	case tcell.KeyLeft:
		return core.KeyLeft
	case tcell.KeyRight:
		return core.KeyRight
	case tcell.KeyRune:
	default:
		return core.KeyUnknown
	}
	switch ev.Rune() {
	case ' ':
		return core.KeySpace
	case 'w', 'W':
		return core.KeyW
	case 'a', 'A':
		return core.KeyA
	case 's', 'S':
		return core.KeyS
	case 'd', 'D':
		return core.KeyD
	case 'q', 'Q':
		return core.KeyQ
	case 'e', 'E':
		return core.KeyE
	default:
		return core.KeyUnknown
	}
}

func translateMods(m tcell.ModMask) core.Mod {
	var out core.Mod
	if m&tcell.ModShift != 0 {
		out |= core.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= core.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= core.ModSuper
	}
	return out
}
