// Package view drives the render pipeline: it owns the cameras and the
// rendering stages and, once per frame, calls every enabled stage for
// every camera and active layer between the backend's StartFrame and
// EndFrame.
package view

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/profiler"
	"github.com/hubastard/isoview/engine/video"
)

type rendererEntry struct {
	renderer Renderer
	seq      int // registration order, breaks position ties
}

// View is the pipeline orchestrator. It is not safe for concurrent use.
type View struct {
	backend video.RenderBackend
	culler  Culler

	renderers map[string]rendererEntry
	regCount  int
	pipeline  []Renderer
	dirty     bool

	cameras map[string]*Camera
	order   []*Camera

	closeErrs []error // from replaced stages, reported by the next Update
}

func New(backend video.RenderBackend) *View {
	return &View{
		backend:   backend,
		culler:    AllInstances,
		renderers: make(map[string]rendererEntry),
		cameras:   make(map[string]*Camera),
	}
}

func (v *View) Backend() video.RenderBackend { return v.backend }

// SetCuller replaces the visibility source. Nil restores AllInstances.
func (v *View) SetCuller(c Culler) {
	if c == nil {
		c = AllInstances
	}
	v.culler = c
}

// AddRenderer takes ownership of r. A stage already registered under the
// same name is replaced and closed if it implements io.Closer; a close
// error is returned by the next Update or Close. The new stage starts with
// every active camera layer activated.
func (v *View) AddRenderer(r Renderer) {
	name := r.Name()
	if old, ok := v.renderers[name]; ok {
		old.renderer.SetListener(nil)
		if err := closeRenderer(old.renderer); err != nil {
			v.closeErrs = append(v.closeErrs, err)
		}
		logging.Logger().Debug("renderer replaced", "renderer", name)
	}
	v.renderers[name] = rendererEntry{renderer: r, seq: v.regCount}
	v.regCount++

	r.SetListener(v)
	for _, cam := range v.order {
		for _, l := range cam.layers {
			r.AddActiveLayer(l)
		}
	}
	v.dirty = true
}

// Renderer returns the stage registered under name, or nil.
func (v *View) Renderer(name string) Renderer {
	if e, ok := v.renderers[name]; ok {
		return e.renderer
	}
	return nil
}

// Renderers returns every registered stage, enabled or not, in
// registration order.
func (v *View) Renderers() []Renderer {
	entries := make([]rendererEntry, 0, len(v.renderers))
	for _, e := range v.renderers {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b rendererEntry) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]Renderer, len(entries))
	for i, e := range entries {
		out[i] = e.renderer
	}
	return out
}

// Pipeline returns the enabled stages in execution order.
func (v *View) Pipeline() []Renderer {
	v.rebuild()
	return slices.Clone(v.pipeline)
}

func (v *View) OnRendererPipelinePositionChanged(string) { v.dirty = true }
func (v *View) OnRendererEnabledChanged(string)          { v.dirty = true }

func (v *View) rebuild() {
	if !v.dirty {
		return
	}
	entries := make([]rendererEntry, 0, len(v.renderers))
	for _, e := range v.renderers {
		if e.renderer.Enabled() {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b rendererEntry) int {
		if c := cmp.Compare(a.renderer.PipelinePosition(), b.renderer.PipelinePosition()); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	v.pipeline = v.pipeline[:0]
	names := make([]string, len(entries))
	for i, e := range entries {
		v.pipeline = append(v.pipeline, e.renderer)
		names[i] = e.renderer.Name()
	}
	v.dirty = false
	logging.Logger().Debug("render pipeline rebuilt", "stages", names)
}

// AddCamera creates a camera looking at origin in layer. Camera ids are
// unique; a duplicate id is a contract violation.
func (v *View) AddCamera(id string, layer Layer, viewport geom.Rect, origin geom.DoublePoint3D) (*Camera, error) {
	if _, ok := v.cameras[id]; ok {
		return nil, fmt.Errorf("%w: camera %q already exists", video.ErrContractViolation, id)
	}
	cam := NewCamera(id, layer, viewport, origin)
	cam.onLayersChanged = v.ResetRenderers
	v.cameras[id] = cam
	v.order = append(v.order, cam)
	v.ResetRenderers()
	return cam, nil
}

// Camera returns the camera with id, or nil.
func (v *View) Camera(id string) *Camera { return v.cameras[id] }

// Cameras returns the cameras in the order they were added.
func (v *View) Cameras() []*Camera { return slices.Clone(v.order) }

func (v *View) RemoveCamera(cam *Camera) {
	if cam == nil || v.cameras[cam.id] != cam {
		return
	}
	delete(v.cameras, cam.id)
	v.order = slices.DeleteFunc(v.order, func(c *Camera) bool { return c == cam })
	cam.onLayersChanged = nil
	v.ResetRenderers()
}

func (v *View) ClearCameras() {
	for _, cam := range v.order {
		cam.onLayersChanged = nil
	}
	clear(v.cameras)
	v.order = v.order[:0]
	v.ResetRenderers()
}

// ResetRenderers makes every stage's active layers the union of the
// cameras' active layers.
func (v *View) ResetRenderers() {
	for _, e := range v.renderers {
		e.renderer.ClearActiveLayers()
		for _, cam := range v.order {
			for _, l := range cam.layers {
				e.renderer.AddActiveLayer(l)
			}
		}
	}
}

// Update renders one frame. Stage errors are collected and the traversal
// goes on; an error wrapping video.ErrBackendFatal stops it. EndFrame is
// always called once StartFrame was.
func (v *View) Update(images ImagePool, animations AnimationPool) (err error) {
	defer profiler.Start("View.Update")()

	pipeline := v.Pipeline()
	for _, r := range pipeline {
		if pc, ok := r.(PoolConsumer); ok {
			pc.SetPools(images, animations)
		}
	}

	v.backend.StartFrame()
	defer func() {
		if eerr := v.backend.EndFrame(); eerr != nil {
			err = errors.Join(err, eerr)
		}
	}()

	errs := v.closeErrs
	v.closeErrs = nil
	for _, cam := range v.order {
		if !cam.Enabled() {
			continue
		}
		if !v.renderCamera(cam, pipeline, &errs) {
			break
		}
	}
	return errors.Join(errs...)
}

// renderCamera reports false when a fatal error ends the frame.
func (v *View) renderCamera(cam *Camera, pipeline []Renderer, errs *[]error) bool {
	v.backend.PushClipArea(cam.Viewport(), false)
	defer v.backend.PopClipArea()

	for _, layer := range cam.layers {
		instances := v.culler.VisibleInstances(cam, layer)
		for _, r := range pipeline {
			if !r.IsActiveLayer(layer) {
				continue
			}
			end := profiler.Start(r.Name())
			err := r.Render(cam, layer, instances)
			end()
			if err == nil {
				continue
			}
			*errs = append(*errs, fmt.Errorf("view: %s on camera %q layer %q: %w", r.Name(), cam.id, layer.ID(), err))
			if errors.Is(err, video.ErrBackendFatal) {
				return false
			}
		}
	}
	return true
}

// Close closes every closable stage and drops all stages and cameras.
func (v *View) Close() error {
	errs := v.closeErrs
	v.closeErrs = nil
	for _, r := range v.Renderers() {
		if err := closeRenderer(r); err != nil {
			errs = append(errs, err)
		}
	}
	clear(v.renderers)
	v.pipeline = nil
	v.dirty = false
	v.ClearCameras()
	return errors.Join(errs...)
}

func closeRenderer(r Renderer) error {
	c, ok := r.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		logging.Logger().Warn("closing renderer failed", "renderer", r.Name(), "err", err)
		return fmt.Errorf("view: close %s: %w", r.Name(), err)
	}
	return nil
}
