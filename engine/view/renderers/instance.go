package renderers

import (
	"cmp"
	"slices"
	"time"

	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/view"
	"github.com/hubastard/isoview/engine/video"
)

const InstanceRendererName = "InstanceRenderer"

// InstanceRenderer draws the image or current animation frame of every
// visible instance, bottom-centre anchored on the instance position and
// painted back to front.
type InstanceRenderer struct {
	view.RendererBase
	backend    video.RenderBackend
	images     view.ImagePool
	animations view.AnimationPool
	elapsed    func() time.Duration

	sorted []placed // recomputed each call
}

type placed struct {
	inst view.VisualInstance
	at   geom.Point
	z    float64
}

func NewInstanceRenderer(be video.RenderBackend, position int) *InstanceRenderer {
	start := time.Now()
	return &InstanceRenderer{
		RendererBase: view.NewRendererBase(InstanceRendererName, position),
		backend:      be,
		elapsed:      func() time.Duration { return time.Since(start) },
	}
}

func (r *InstanceRenderer) SetPools(images view.ImagePool, animations view.AnimationPool) {
	r.images, r.animations = images, animations
}

// SetClock replaces the animation clock.
func (r *InstanceRenderer) SetClock(elapsed func() time.Duration) { r.elapsed = elapsed }

func (r *InstanceRenderer) Render(cam *view.Camera, _ view.Layer, instances []view.Instance) error {
	r.sorted = r.sorted[:0]
	for _, inst := range instances {
		vi, ok := inst.(view.VisualInstance)
		if !ok {
			continue
		}
		c := vi.Location().Coords
		r.sorted = append(r.sorted, placed{inst: vi, at: cam.ToScreen(c), z: c.Z})
	}
	slices.SortStableFunc(r.sorted, func(a, b placed) int {
		if c := cmp.Compare(a.z, b.z); c != 0 {
			return c
		}
		return cmp.Compare(a.at.Y, b.at.Y)
	})

	now := r.elapsed()
	for _, p := range r.sorted {
		img := r.lookup(p.inst, now)
		if img == nil {
			logging.Logger().Debug("instance has no image", "instance", p.inst.ID())
			continue
		}
		r.backend.DrawImage(img, geom.Pt(p.at.X-img.Width()/2, p.at.Y-img.Height()))
	}
	return nil
}

// lookup prefers the animation over the still image.
func (r *InstanceRenderer) lookup(inst view.VisualInstance, now time.Duration) *video.Image {
	if id := inst.AnimationID(); id != "" && r.animations != nil {
		if img, ok := r.animations.Frame(id, now); ok {
			return img
		}
	}
	if id := inst.ImageID(); id != "" && r.images != nil {
		if img, ok := r.images.Image(id); ok {
			return img
		}
	}
	return nil
}
