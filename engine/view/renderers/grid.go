package renderers

import (
	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/view"
	"github.com/hubastard/isoview/engine/video"
)

const GridRendererName = "GridRenderer"

// GridRenderer outlines every visible cell of a layer.
type GridRenderer struct {
	view.RendererBase
	backend video.RenderBackend
	color   colors.Color
}

func NewGridRenderer(be video.RenderBackend, position int) *GridRenderer {
	return &GridRenderer{
		RendererBase: view.NewRendererBase(GridRendererName, position),
		backend:      be,
		color:        colors.Gray,
	}
}

func (r *GridRenderer) SetColor(c colors.Color) { r.color = c }

func (r *GridRenderer) Render(cam *view.Camera, layer view.Layer, _ []view.Instance) error {
	area := LayerArea(cam, layer)
	cr, cg, cb, _ := r.color.Bytes()
	z := cam.Location().Coords.Z
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			c := cellCorners(cam, x, y, z)
			for i := range c {
				r.backend.DrawLine(c[i], c[(i+1)%len(c)], cr, cg, cb)
			}
		}
	}
	return nil
}
