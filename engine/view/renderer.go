package view

import "slices"

// Renderer is one stage of the render pipeline. Stages run in ascending
// pipeline position; Render is called once per camera and active layer
// and must not modify the camera, the layer or the instance slice.
type Renderer interface {
	Name() string

	Enabled() bool
	SetEnabled(enabled bool)

	PipelinePosition() int
	SetPipelinePosition(position int)

	Render(cam *Camera, layer Layer, instances []Instance) error

	AddActiveLayer(layer Layer)
	RemoveActiveLayer(layer Layer)
	ClearActiveLayers()
	IsActiveLayer(layer Layer) bool
	ActiveLayers() []Layer

	SetListener(l RendererListener)
}

// RendererListener is told when a stage changes how it sorts into the
// pipeline. The view only marks its ordering stale.
type RendererListener interface {
	OnRendererPipelinePositionChanged(name string)
	OnRendererEnabledChanged(name string)
}

// PoolConsumer is implemented by stages that draw pooled resources. The
// view hands over the pools passed to Update before each frame.
type PoolConsumer interface {
	SetPools(images ImagePool, animations AnimationPool)
}

// RendererBase carries the bookkeeping every stage shares. Embed it and
// implement Render.
type RendererBase struct {
	name     string
	enabled  bool
	position int
	layers   []Layer
	listener RendererListener
}

// NewRendererBase returns an enabled stage base.
func NewRendererBase(name string, position int) RendererBase {
	return RendererBase{name: name, enabled: true, position: position}
}

func (r *RendererBase) Name() string          { return r.name }
func (r *RendererBase) Enabled() bool         { return r.enabled }
func (r *RendererBase) PipelinePosition() int { return r.position }

func (r *RendererBase) SetEnabled(enabled bool) {
	if r.enabled == enabled {
		return
	}
	r.enabled = enabled
	if r.listener != nil {
		r.listener.OnRendererEnabledChanged(r.name)
	}
}

func (r *RendererBase) SetPipelinePosition(position int) {
	if r.position == position {
		return
	}
	r.position = position
	if r.listener != nil {
		r.listener.OnRendererPipelinePositionChanged(r.name)
	}
}

func (r *RendererBase) AddActiveLayer(layer Layer) {
	if layer != nil && !slices.Contains(r.layers, layer) {
		r.layers = append(r.layers, layer)
	}
}

func (r *RendererBase) RemoveActiveLayer(layer Layer) {
	if i := slices.Index(r.layers, layer); i >= 0 {
		r.layers = slices.Delete(r.layers, i, i+1)
	}
}

func (r *RendererBase) ClearActiveLayers()             { r.layers = r.layers[:0] }
func (r *RendererBase) IsActiveLayer(layer Layer) bool { return slices.Contains(r.layers, layer) }
func (r *RendererBase) ActiveLayers() []Layer          { return slices.Clone(r.layers) }

func (r *RendererBase) SetListener(l RendererListener) { r.listener = l }
