// Package software is the headless pixel backend. The main screen is an
// in-memory image; an optional Presenter receives it at the end of every
// frame.
package software

import (
	"errors"
	"fmt"

	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/video"
)

const Name = "software"

func init() {
	video.Register(Name, func() video.RenderBackend { return New() })
}

// Presenter is called by EndFrame with the finished screen. The image is
// only valid until the next StartFrame.
type Presenter func(screen *video.Image) error

type Backend struct {
	video.Base
	present   Presenter
	presented int
}

func New() *Backend {
	return &Backend{Base: video.NewBase(Name)}
}

func (b *Backend) SetPresenter(p Presenter) { b.present = p }

// Presented is the number of frames ended so far.
func (b *Backend) Presented() int { return b.presented }

func (b *Backend) CreateMainScreen(width, height int, bitsPerPixel uint8, fullscreen bool) (*video.Image, error) {
	if fullscreen {
		logging.Logger().Warn("fullscreen ignored by headless backend", "backend", Name)
	}
	return b.Base.CreateMainScreen(width, height, bitsPerPixel, fullscreen)
}

func (b *Backend) EndFrame() error {
	err := b.Base.EndFrame()
	b.presented++
	if b.present != nil {
		if perr := b.present(b.ScreenImage()); perr != nil {
			err = errors.Join(err, fmt.Errorf("%w: present: %w", video.ErrBackendFatal, perr))
		}
	}
	return err
}
