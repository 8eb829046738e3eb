package view

import (
	"time"

	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/video"
)

// Location is a position on a layer in exact (fractional) cell
// coordinates.
type Location struct {
	Layer  Layer
	Coords geom.DoublePoint3D
}

// Instance is one object placed on a layer.
type Instance interface {
	ID() string
	Location() Location
}

// VisualInstance is an instance with something to draw. An empty id means
// none.
type VisualInstance interface {
	Instance
	ImageID() string
	AnimationID() string
}

// Layer is a named plane of instances. Bounds is the occupied cell
// rectangle.
type Layer interface {
	ID() string
	Bounds() geom.Rect
	Instances() []Instance
}

// Culler decides which instances of a layer a camera can see. The view
// forwards its answer to the stages unchanged.
type Culler interface {
	VisibleInstances(cam *Camera, layer Layer) []Instance
}

type CullerFunc func(cam *Camera, layer Layer) []Instance

func (f CullerFunc) VisibleInstances(cam *Camera, layer Layer) []Instance { return f(cam, layer) }

// AllInstances is the default culler: every instance of the layer.
var AllInstances Culler = CullerFunc(func(_ *Camera, layer Layer) []Instance {
	return layer.Instances()
})

// ImagePool resolves image ids to backend images.
type ImagePool interface {
	Image(id string) (*video.Image, bool)
}

// AnimationPool resolves an animation id to the frame showing after elapsed.
type AnimationPool interface {
	Frame(id string, elapsed time.Duration) (*video.Image, bool)
}
