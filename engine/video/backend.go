// Package video defines the render backend contract: ownership of the one
// display surface, the clip stack, clipped drawing primitives, the frame
// bracket and lossless screen capture.
//
// Concrete backends live in sub-packages (software, opengl, terminal),
// embed Base for the shared behaviour and register themselves by name:
//
//	import _ "github.com/hubastard/isoview/engine/video/software"
//
//	be, err := video.New("software")
//	if err != nil {
//		return err
//	}
//	if err := be.Init(); err != nil {
//		return err
//	}
//	defer be.Deinit()
//	screen, err := be.CreateMainScreen(800, 600, 0, false)
//
// A backend is single-threaded: one render goroutine per instance.
package video

import (
	"image"

	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
)

// RenderBackend is implemented by every backend variant.
type RenderBackend interface {
	// Name is the registry name ("software", "opengl", ...).
	Name() string

	// Init acquires backend resources. An error wrapping ErrBackendFatal
	// means the display system is unavailable.
	Init() error

	// Deinit releases resources. Calling it when not initialized is a no-op.
	Deinit()

	// CreateMainScreen creates or replaces the display surface.
	// bitsPerPixel 0 picks the best available depth.
	CreateMainScreen(width, height int, bitsPerPixel uint8, fullscreen bool) (*Image, error)

	// CreateImage builds a detached image from tightly packed RGBA8 rows.
	CreateImage(data []byte, width, height int) (*Image, error)

	// CreateImageFromSurface takes ownership of an already decoded surface.
	CreateImageFromSurface(surface image.Image) (*Image, error)

	// ScreenImage returns the display surface, or nil before CreateMainScreen.
	ScreenImage() *Image
	ScreenBitsPerPixel() uint8
	Width() int
	Height() int
	Area() geom.Rect

	// StartFrame and EndFrame bracket all drawing for one frame. Nesting,
	// or ending a frame that was not started, panics with a
	// *ContractViolation. EndFrame reports presentation failures.
	StartFrame()
	EndFrame() error
	InFrame() bool

	// PushClipArea intersects r with the current clip and pushes it,
	// clearing it to the background first when clear is set.
	PushClipArea(r geom.Rect, clear bool)
	PopClipArea()
	ClipArea() geom.Rect
	SetBackground(c colors.Color)

	// Drawing primitives target the screen only and are clipped to
	// ClipArea. They must be called inside a frame.
	PutPixel(x, y int, r, g, b uint8) bool
	GetPixelRGBA(x, y int) (r, g, b, a uint8, err error)
	DrawLine(p1, p2 geom.Point, r, g, b uint8)
	DrawQuad(p1, p2, p3, p4 geom.Point, r, g, b uint8)
	DrawImage(img *Image, dst geom.Point)

	CaptureScreen(filename string) error
	SaveImage(img *Image, filename string) error

	// SetAlphaOptimizerEnabled lets opaque and fully transparent source
	// pixels skip the blend equation. Output is identical either way.
	SetAlphaOptimizerEnabled(enabled bool)
	AlphaOptimizerEnabled() bool

	// Stats reports counts for the current (or last) frame.
	Stats() Statistics
}

// Statistics captures the draw calls issued during a frame.
type Statistics struct {
	Frames     int
	Lines      int
	Quads      int
	Pixels     int
	Images     int
	ClipPushes int
}

// DrawCalls is the number of primitive calls this frame.
func (s Statistics) DrawCalls() int { return s.Lines + s.Quads + s.Pixels + s.Images }
