package renderers

import (
	"fmt"
	"math"

	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/view"
	"github.com/hubastard/isoview/engine/video"
)

// FontRenderer draws a single line of text with its top-left corner at
// (x, y).
type FontRenderer interface {
	DrawText(be video.RenderBackend, x, y int, s string, c colors.Color) error
	MeasureText(s string) (w, h int)
}

const CoordinateRendererName = "CoordinateRenderer"

// CoordinateRenderer labels every visible instance with its exact "x,y"
// map coordinate, centred on the instance's screen position.
type CoordinateRenderer struct {
	view.RendererBase
	backend video.RenderBackend
	font    FontRenderer
	color   colors.Color

	area geom.Rect // recomputed each call
}

func NewCoordinateRenderer(be video.RenderBackend, position int, font FontRenderer) *CoordinateRenderer {
	return &CoordinateRenderer{
		RendererBase: view.NewRendererBase(CoordinateRendererName, position),
		backend:      be,
		font:         font,
		color:        colors.White,
	}
}

func (r *CoordinateRenderer) SetColor(c colors.Color) { r.color = c }

func (r *CoordinateRenderer) Render(cam *view.Camera, layer view.Layer, instances []view.Instance) error {
	r.area = LayerArea(cam, layer)
	for _, inst := range instances {
		c := inst.Location().Coords
		cell := geom.Pt(int(math.Floor(c.X)), int(math.Floor(c.Y)))
		if !r.area.Contains(cell) {
			continue
		}
		p := cam.ToScreen(c)
		label := fmt.Sprintf("%g,%g", c.X, c.Y)
		w, h := r.font.MeasureText(label)
		if err := r.font.DrawText(r.backend, p.X-w/2, p.Y-h/2, label, r.color); err != nil {
			return fmt.Errorf("coordinate label %s: %w", label, err)
		}
	}
	return nil
}
