package video

import (
	"fmt"
	"image"

	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/logging"
)

// SupportedBitsPerPixel lists the display depths every backend accepts.
// 0 asks the backend for its best depth.
var SupportedBitsPerPixel = []uint8{0, 16, 24, 32}

// ResolveBitsPerPixel validates bpp and maps 0 to 32.
func ResolveBitsPerPixel(bpp uint8) (uint8, error) {
	switch bpp {
	case 0:
		return 32, nil
	case 16, 24, 32:
		return bpp, nil
	}
	return 0, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedMode, bpp)
}

// Base implements the parts of RenderBackend that do not depend on how the
// screen is presented: state machine, screen ownership, clip stack, frame
// bracket and CPU drawing into the screen image. Backends embed it and
// override Init, CreateMainScreen, EndFrame and Deinit where they need to
// talk to a device, calling through to Base first.
type Base struct {
	name        string
	initialized bool
	inFrame     bool

	screen *Image
	bpp    uint8

	clip       ClipStack
	background colors.Color
	alphaOpt   bool

	frames int
	stats  Statistics
}

func NewBase(name string) Base {
	return Base{name: name, background: colors.Transparent}
}

func (b *Base) Name() string      { return b.name }
func (b *Base) Initialized() bool { return b.initialized }

// Init moves the backend to Ready. Calling it twice is a no-op.
func (b *Base) Init() error {
	if b.initialized {
		return nil
	}
	b.initialized = true
	logging.Logger().Info("video backend initialized", "backend", b.name)
	return nil
}

// Deinit drops the screen and returns to Uninitialized.
func (b *Base) Deinit() {
	if !b.initialized {
		return
	}
	b.initialized = false
	b.inFrame = false
	b.screen = nil
	b.bpp = 0
	b.clip.Reset(geom.Rect{})
	logging.Logger().Info("video backend deinitialized", "backend", b.name)
}

func (b *Base) CreateMainScreen(width, height int, bitsPerPixel uint8, fullscreen bool) (*Image, error) {
	if !b.initialized {
		return nil, fmt.Errorf("%s: create main screen: %w", b.name, ErrNotInitialized)
	}
	if b.inFrame {
		violate("CreateMainScreen", "screen replaced inside a frame")
	}
	bpp, err := ResolveBitsPerPixel(bitsPerPixel)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnsupportedMode, width, height)
	}

	b.screen = NewImage(width, height)
	b.bpp = bpp
	b.clip.Reset(b.screen.Area())
	logging.Logger().Info("main screen created",
		"backend", b.name, "width", width, "height", height, "bpp", bpp, "fullscreen", fullscreen)
	return b.screen, nil
}

func (b *Base) CreateImage(data []byte, width, height int) (*Image, error) {
	return newImageFromRGBA(data, width, height)
}

func (b *Base) CreateImageFromSurface(surface image.Image) (*Image, error) {
	return newImageFromSurface(surface)
}

func (b *Base) ScreenImage() *Image       { return b.screen }
func (b *Base) ScreenBitsPerPixel() uint8 { return b.bpp }

func (b *Base) Width() int {
	if b.screen == nil {
		return 0
	}
	return b.screen.Width()
}

func (b *Base) Height() int {
	if b.screen == nil {
		return 0
	}
	return b.screen.Height()
}

func (b *Base) Area() geom.Rect {
	if b.screen == nil {
		return geom.Rect{}
	}
	return b.screen.Area()
}

// StartFrame opens a frame, resets the statistics and clears the screen to
// the background colour.
func (b *Base) StartFrame() {
	if b.inFrame {
		violate("StartFrame", "frame already started")
	}
	if b.screen == nil {
		violate("StartFrame", "no main screen")
	}
	b.inFrame = true
	b.frames++
	b.stats = Statistics{Frames: b.frames}
	b.fill(b.screen.Area(), b.background)
}

// EndFrame closes the frame. Clip areas left pushed are dropped and
// reported as an error wrapping ErrContractViolation; the frame is closed
// either way.
func (b *Base) EndFrame() error {
	if !b.inFrame {
		violate("EndFrame", "no frame started")
	}
	b.inFrame = false
	if depth := b.clip.Depth(); depth > 0 {
		b.clip.Reset(b.clip.Bounds())
		return fmt.Errorf("%w: frame ended with %d clip areas pushed", ErrContractViolation, depth)
	}
	return nil
}

func (b *Base) InFrame() bool { return b.inFrame }

func (b *Base) PushClipArea(r geom.Rect, clear bool) {
	b.requireFrame("PushClipArea")
	effective := b.clip.Push(r, clear)
	b.stats.ClipPushes++
	if clear {
		b.fill(effective, b.background)
	}
}

func (b *Base) PopClipArea() {
	b.requireFrame("PopClipArea")
	b.clip.Pop()
}

// ClipArea returns the effective clip rectangle; the whole screen when
// nothing is pushed.
func (b *Base) ClipArea() geom.Rect { return b.clip.Top() }

func (b *Base) SetBackground(c colors.Color) { b.background = c }
func (b *Base) Background() colors.Color     { return b.background }

func (b *Base) SetAlphaOptimizerEnabled(enabled bool) { b.alphaOpt = enabled }
func (b *Base) AlphaOptimizerEnabled() bool           { return b.alphaOpt }

func (b *Base) Stats() Statistics { return b.stats }

func (b *Base) CaptureScreen(filename string) error {
	if b.screen == nil {
		return fmt.Errorf("capture %s: %w", filename, ErrNoScreen)
	}
	return b.SaveImage(b.screen, filename)
}

func (b *Base) SaveImage(img *Image, filename string) error {
	if img == nil {
		return fmt.Errorf("save %s: %w: nil image", filename, ErrInvalidImageData)
	}
	return encodeFile(img.pix, filename)
}

func (b *Base) requireFrame(op string) {
	if !b.inFrame {
		violate(op, "called outside StartFrame/EndFrame")
	}
}
