package core

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hubastard/isoview/engine/video"
)

var (
	ErrNotSupported = errors.New("settings: value not supported")
	ErrNotFound     = errors.New("settings: file not found")
	ErrNotSet       = errors.New("settings: mandatory value not set")
)

const MaxVolume = 10.0

type setting uint8

const (
	setBackend setting = 1 << iota
	setWidth
	setHeight
	setFontSize
)

// EngineSettings holds what the engine needs before it can open a screen.
// Setters that take a constrained value reject it with ErrNotSupported or
// ErrNotFound and keep the old one.
type EngineSettings struct {
	bpp             uint8
	fullscreen      bool
	volume          float64
	backend         string
	removeFakeAlpha bool
	width, height   int
	title           string
	frameRateLimit  int

	fontPath   string
	fontSize   float64
	fontGlyphs string

	assigned setting
}

// DefaultSettings is a complete configuration: software backend, 800x600,
// automatic depth and the built-in font at 12 px.
func DefaultSettings() EngineSettings {
	s := EngineSettings{title: "isoview", frameRateLimit: 60}
	s.volume = 5
	s.backend = "software"
	s.width, s.height = 800, 600
	s.fontSize = 12
	s.assigned = setBackend | setWidth | setHeight | setFontSize
	return s
}

func (s *EngineSettings) SetBitsPerPixel(bpp uint8) error {
	if !slices.Contains(s.PossibleBitsPerPixel(), bpp) {
		return fmt.Errorf("%w: %d bits per pixel", ErrNotSupported, bpp)
	}
	s.bpp = bpp
	return nil
}

func (s *EngineSettings) BitsPerPixel() uint8 { return s.bpp }

// PossibleBitsPerPixel lists the accepted depths; 0 means automatic.
func (s *EngineSettings) PossibleBitsPerPixel() []uint8 {
	return slices.Clone(video.SupportedBitsPerPixel)
}

func (s *EngineSettings) SetFullScreen(fullscreen bool) { s.fullscreen = fullscreen }
func (s *EngineSettings) FullScreen() bool              { return s.fullscreen }

func (s *EngineSettings) SetInitialVolume(volume float64) error {
	if volume < 0 || volume > MaxVolume {
		return fmt.Errorf("%w: volume %v outside [0, %v]", ErrNotSupported, volume, MaxVolume)
	}
	s.volume = volume
	return nil
}

func (s *EngineSettings) InitialVolume() float64 { return s.volume }
func (s *EngineSettings) MaxVolume() float64     { return MaxVolume }

func (s *EngineSettings) SetRenderBackend(name string) error {
	if !slices.Contains(s.PossibleRenderBackends(), name) {
		return fmt.Errorf("%w: render backend %q (have %s)",
			ErrNotSupported, name, strings.Join(s.PossibleRenderBackends(), ", "))
	}
	s.backend = name
	s.assigned |= setBackend
	return nil
}

func (s *EngineSettings) RenderBackend() string { return s.backend }

// PossibleRenderBackends is every backend linked into the binary.
func (s *EngineSettings) PossibleRenderBackends() []string { return video.Available() }

// SetSDLRemoveFakeAlpha makes the backend skip blending for fully opaque
// and fully transparent pixels.
func (s *EngineSettings) SetSDLRemoveFakeAlpha(remove bool) { s.removeFakeAlpha = remove }
func (s *EngineSettings) SDLRemoveFakeAlpha() bool          { return s.removeFakeAlpha }

func (s *EngineSettings) SetScreenWidth(w int) {
	s.width = w
	s.assigned |= setWidth
}

func (s *EngineSettings) SetScreenHeight(h int) {
	s.height = h
	s.assigned |= setHeight
}

func (s *EngineSettings) ScreenWidth() int  { return s.width }
func (s *EngineSettings) ScreenHeight() int { return s.height }

func (s *EngineSettings) SetWindowTitle(title string) { s.title = title }
func (s *EngineSettings) WindowTitle() string         { return s.title }

// SetFrameRateLimit caps frames per second. 0 renders as fast as the
// backend presents.
func (s *EngineSettings) SetFrameRateLimit(fps int) { s.frameRateLimit = max(fps, 0) }
func (s *EngineSettings) FrameRateLimit() int       { return s.frameRateLimit }

// SetDefaultFontPath selects a TTF or OTF file. Empty selects the
// built-in font.
func (s *EngineSettings) SetDefaultFontPath(path string) error {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
	}
	s.fontPath = path
	return nil
}

func (s *EngineSettings) DefaultFontPath() string { return s.fontPath }

func (s *EngineSettings) SetDefaultFontSize(size float64) {
	s.fontSize = size
	s.assigned |= setFontSize
}

func (s *EngineSettings) DefaultFontSize() float64 { return s.fontSize }

// SetDefaultFontGlyphs sets the runes rasterized for the default font.
// Empty means printable Latin-1.
func (s *EngineSettings) SetDefaultFontGlyphs(glyphs string) { s.fontGlyphs = glyphs }
func (s *EngineSettings) DefaultFontGlyphs() string          { return s.fontGlyphs }

// Validate reports every mandatory value that was never set.
func (s *EngineSettings) Validate() error {
	var missing []string
	for _, m := range []struct {
		bit  setting
		name string
	}{
		{setBackend, "render backend"},
		{setWidth, "screen width"},
		{setHeight, "screen height"},
		{setFontSize, "default font size"},
	} {
		if s.assigned&m.bit == 0 {
			missing = append(missing, m.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrNotSet, strings.Join(missing, ", "))
	}
	return nil
}
