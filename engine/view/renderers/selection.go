package renderers

import (
	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/view"
	"github.com/hubastard/isoview/engine/video"
)

const SelectionRendererName = "SelectionRenderer"

// SelectionRenderer fills selected cells.
type SelectionRenderer struct {
	view.RendererBase
	backend  video.RenderBackend
	color    colors.Color
	selected map[view.Layer][]geom.Point
}

func NewSelectionRenderer(be video.RenderBackend, position int) *SelectionRenderer {
	return &SelectionRenderer{
		RendererBase: view.NewRendererBase(SelectionRendererName, position),
		backend:      be,
		color:        colors.Yellow,
		selected:     make(map[view.Layer][]geom.Point),
	}
}

func (r *SelectionRenderer) SetColor(c colors.Color) { r.color = c }

// Select marks cell on layer. Selecting twice is a no-op.
func (r *SelectionRenderer) Select(layer view.Layer, cell geom.Point) {
	for _, p := range r.selected[layer] {
		if p == cell {
			return
		}
	}
	r.selected[layer] = append(r.selected[layer], cell)
}

func (r *SelectionRenderer) Deselect(layer view.Layer, cell geom.Point) {
	cells := r.selected[layer]
	for i, p := range cells {
		if p == cell {
			r.selected[layer] = append(cells[:i:i], cells[i+1:]...)
			return
		}
	}
}

func (r *SelectionRenderer) ClearSelection() { clear(r.selected) }

func (r *SelectionRenderer) Render(cam *view.Camera, layer view.Layer, _ []view.Instance) error {
	cells := r.selected[layer]
	if len(cells) == 0 {
		return nil
	}
	cr, cg, cb, _ := r.color.Bytes()
	z := cam.Location().Coords.Z
	for _, cell := range cells {
		c := cellCorners(cam, cell.X, cell.Y, z)
		r.backend.DrawQuad(c[0], c[1], c[2], c[3], cr, cg, cb)
	}
	return nil
}
