package renderers

import (
	"fmt"

	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/view"
	"github.com/hubastard/isoview/engine/video"
)

const OverlayRendererName = "OverlayRenderer"

const overlayPadding = 6

// OverlayRenderer draws a block of text lines in the top-left corner of
// every camera viewport, once per camera on its first active layer.
type OverlayRenderer struct {
	view.RendererBase
	backend    video.RenderBackend
	font       FontRenderer
	lines      func() []string
	color      colors.Color
	background colors.Color
}

// NewOverlayRenderer draws the lines returned by source, which is called
// once per camera and frame.
func NewOverlayRenderer(be video.RenderBackend, position int, font FontRenderer, source func() []string) *OverlayRenderer {
	return &OverlayRenderer{
		RendererBase: view.NewRendererBase(OverlayRendererName, position),
		backend:      be,
		font:         font,
		lines:        source,
		color:        colors.White,
		background:   colors.DarkGray,
	}
}

func (r *OverlayRenderer) SetColor(c colors.Color)      { r.color = c }
func (r *OverlayRenderer) SetBackground(c colors.Color) { r.background = c }

func (r *OverlayRenderer) Render(cam *view.Camera, layer view.Layer, _ []view.Instance) error {
	if layers := cam.ActiveLayers(); len(layers) == 0 || layers[0] != layer || r.lines == nil {
		return nil
	}
	lines := r.lines()
	if len(lines) == 0 {
		return nil
	}

	w, h := 0, 0
	for _, l := range lines {
		lw, lh := r.font.MeasureText(l)
		w = max(w, lw)
		h += lh
	}
	vp := cam.Viewport()
	box := geom.NewRect(vp.X, vp.Y, w+2*overlayPadding, h+2*overlayPadding)
	if r.background[3] > 0 {
		br, bg, bb, _ := r.background.Bytes()
		r.backend.DrawQuad(
			box.Origin(), geom.Pt(box.Right(), box.Y),
			geom.Pt(box.Right(), box.Bottom()), geom.Pt(box.X, box.Bottom()),
			br, bg, bb)
	}

	y := box.Y + overlayPadding
	for _, l := range lines {
		if err := r.font.DrawText(r.backend, box.X+overlayPadding, y, l, r.color); err != nil {
			return fmt.Errorf("overlay line %q: %w", l, err)
		}
		_, lh := r.font.MeasureText(l)
		y += lh
	}
	return nil
}
