// Package scene holds a simple in-memory map model (layers of objects),
// a viewport culler and the keyboard camera controller.
package scene

import (
	"slices"

	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/view"
)

// Object is a visual instance placed on a Layer.
type Object struct {
	id        string
	layer     *Layer
	coords    geom.DoublePoint3D
	image     string
	animation string
}

func NewObject(id string, at geom.DoublePoint3D) *Object {
	return &Object{id: id, coords: at}
}

func (o *Object) ID() string          { return o.id }
func (o *Object) ImageID() string     { return o.image }
func (o *Object) AnimationID() string { return o.animation }

func (o *Object) SetImage(id string)           { o.image = id }
func (o *Object) SetAnimation(id string)       { o.animation = id }
func (o *Object) MoveTo(at geom.DoublePoint3D) { o.coords = at }

func (o *Object) Location() view.Location {
	loc := view.Location{Coords: o.coords}
	if o.layer != nil {
		loc.Layer = o.layer
	}
	return loc
}

// Layer is a rectangular plane of cells holding objects in insertion
// order.
type Layer struct {
	id      string
	bounds  geom.Rect
	objects []*Object
}

func NewLayer(id string, bounds geom.Rect) *Layer {
	return &Layer{id: id, bounds: bounds}
}

func (l *Layer) ID() string        { return l.id }
func (l *Layer) Bounds() geom.Rect { return l.bounds }

func (l *Layer) Instances() []view.Instance {
	out := make([]view.Instance, len(l.objects))
	for i, o := range l.objects {
		out[i] = o
	}
	return out
}

// Add places o on l, moving it off its previous layer.
func (l *Layer) Add(o *Object) {
	if o.layer != nil {
		o.layer.Remove(o.id)
	}
	o.layer = l
	l.objects = append(l.objects, o)
}

func (l *Layer) Remove(id string) bool {
	i := slices.IndexFunc(l.objects, func(o *Object) bool { return o.id == id })
	if i < 0 {
		return false
	}
	l.objects[i].layer = nil
	l.objects = slices.Delete(l.objects, i, i+1)
	return true
}

// Object returns the object with id, or nil.
func (l *Layer) Object(id string) *Object {
	i := slices.IndexFunc(l.objects, func(o *Object) bool { return o.id == id })
	if i < 0 {
		return nil
	}
	return l.objects[i]
}

func (l *Layer) Len() int { return len(l.objects) }

// ViewportCuller keeps the instances whose projected position falls inside
// the camera viewport grown by Margin pixels on every side. The margin
// leaves room for images drawn above their anchor.
type ViewportCuller struct {
	Margin int
}

func (c ViewportCuller) VisibleInstances(cam *view.Camera, layer view.Layer) []view.Instance {
	vp := cam.Viewport()
	area := geom.NewRect(vp.X-c.Margin, vp.Y-c.Margin, vp.W+2*c.Margin, vp.H+2*c.Margin)
	var out []view.Instance
	for _, inst := range layer.Instances() {
		if area.Contains(cam.ToScreen(inst.Location().Coords)) {
			out = append(out, inst)
		}
	}
	return out
}
