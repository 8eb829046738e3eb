package assets

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/video"
)

// ImagePool maps ids to backend images. Relative paths are resolved
// against the pool root.
type ImagePool struct {
	backend video.RenderBackend
	root    string
	images  map[string]*video.Image
}

func NewImagePool(be video.RenderBackend, root string) *ImagePool {
	return &ImagePool{backend: be, root: root, images: make(map[string]*video.Image)}
}

// Load decodes path into a backend image stored under id, replacing any
// previous one.
func (p *ImagePool) Load(id, path string) (*video.Image, error) {
	img, err := loadImage(p.backend, p.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", id, err)
	}
	p.images[id] = img
	logging.Logger().Debug("image loaded", "id", id, "w", img.Width(), "h", img.Height())
	return img, nil
}

func (p *ImagePool) Add(id string, img *video.Image) { p.images[id] = img }
func (p *ImagePool) Remove(id string)                { delete(p.images, id) }
func (p *ImagePool) Len() int                        { return len(p.images) }

func (p *ImagePool) Image(id string) (*video.Image, bool) {
	img, ok := p.images[id]
	return img, ok
}

func (p *ImagePool) resolve(path string) string {
	if p.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}

func loadImage(be video.RenderBackend, path string) (*video.Image, error) {
	w, h, pix, err := LoadPixels(path)
	if err != nil {
		return nil, err
	}
	return be.CreateImage(pix, w, h)
}

// Animation is a sequence of frames shown for FrameTime each.
type Animation struct {
	Frames    []*video.Image
	FrameTime time.Duration
	Loop      bool
}

// Frame returns the frame showing after elapsed. A finished animation that
// does not loop holds its last frame.
func (a *Animation) Frame(elapsed time.Duration) *video.Image {
	n := len(a.Frames)
	if n == 0 {
		return nil
	}
	if a.FrameTime <= 0 || elapsed < 0 {
		return a.Frames[0]
	}
	i := int(elapsed / a.FrameTime)
	if a.Loop {
		return a.Frames[i%n]
	}
	return a.Frames[min(i, n-1)]
}

// AnimationPool maps ids to animations.
type AnimationPool struct {
	images *ImagePool
	anims  map[string]*Animation
}

// NewAnimationPool loads sheets through images, which also keeps them.
func NewAnimationPool(images *ImagePool) *AnimationPool {
	return &AnimationPool{images: images, anims: make(map[string]*Animation)}
}

func (p *AnimationPool) Add(id string, a *Animation) { p.anims[id] = a }
func (p *AnimationPool) Remove(id string)            { delete(p.anims, id) }

func (p *AnimationPool) Animation(id string) (*Animation, bool) {
	a, ok := p.anims[id]
	return a, ok
}

// LoadSheet cuts the sheet at path into cw x ch cells, read left to right
// and top to bottom, and stores them as one looping animation. The sheet
// itself is kept in the image pool under id.
func (p *AnimationPool) LoadSheet(id, path string, cw, ch int, frameTime time.Duration) (*Animation, error) {
	if cw <= 0 || ch <= 0 {
		return nil, fmt.Errorf("animation %q: cell size %dx%d: %w", id, cw, ch, video.ErrInvalidImageData)
	}
	sheet, err := p.images.Load(id, path)
	if err != nil {
		return nil, err
	}
	if sheet.Width()%cw != 0 || sheet.Height()%ch != 0 {
		p.images.Remove(id)
		return nil, fmt.Errorf("animation %q: sheet %dx%d is not a grid of %dx%d cells: %w",
			id, sheet.Width(), sheet.Height(), cw, ch, video.ErrInvalidImageData)
	}
	cols, rows := sheet.Width()/cw, sheet.Height()/ch
	a := &Animation{FrameTime: frameTime, Loop: true}
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			a.Frames = append(a.Frames, FromGrid(sheet, cx, cy, cw, ch))
		}
	}
	p.anims[id] = a
	return a, nil
}

// Frame implements the view's animation lookup.
func (p *AnimationPool) Frame(id string, elapsed time.Duration) (*video.Image, bool) {
	a, ok := p.anims[id]
	if !ok {
		return nil, false
	}
	img := a.Frame(elapsed)
	return img, img != nil
}

// FromPixels returns the w x h region of sheet at (x, y), sharing its
// pixels.
func FromPixels(sheet *video.Image, x, y, w, h int) *video.Image {
	return sheet.SubImage(geom.NewRect(x, y, w, h))
}

// FromGrid returns grid cell (cx, cy) of cell size cw x ch.
func FromGrid(sheet *video.Image, cx, cy, cw, ch int) *video.Image {
	return FromPixels(sheet, cx*cw, cy*ch, cw, ch)
}
