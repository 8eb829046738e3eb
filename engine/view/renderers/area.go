// Package renderers holds the stock pipeline stages.
package renderers

import (
	"math"

	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/view"
)

// LayerArea returns the cells of layer that can show up in the camera
// viewport: the bounding box of the viewport corners projected onto the
// map, grown by one cell and limited to the layer bounds.
func LayerArea(cam *view.Camera, layer view.Layer) geom.Rect {
	vp := cam.Viewport()
	corners := [4]geom.Point{
		{X: vp.X, Y: vp.Y},
		{X: vp.Right(), Y: vp.Y},
		{X: vp.Right(), Y: vp.Bottom()},
		{X: vp.X, Y: vp.Bottom()},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		m := cam.ToMap(c)
		minX, maxX = min(minX, m.X), max(maxX, m.X)
		minY, maxY = min(minY, m.Y), max(maxY, m.Y)
	}
	x0, y0 := int(math.Floor(minX))-1, int(math.Floor(minY))-1
	x1, y1 := int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1
	return geom.NewRect(x0, y0, x1-x0+1, y1-y0+1).Intersect(layer.Bounds())
}

// cellCorners returns the screen outline of the cell centred on (x, y).
func cellCorners(cam *view.Camera, x, y int, z float64) [4]geom.Point {
	fx, fy := float64(x), float64(y)
	return [4]geom.Point{
		cam.ToScreen(geom.DoublePoint3D{X: fx - 0.5, Y: fy - 0.5, Z: z}),
		cam.ToScreen(geom.DoublePoint3D{X: fx + 0.5, Y: fy - 0.5, Z: z}),
		cam.ToScreen(geom.DoublePoint3D{X: fx + 0.5, Y: fy + 0.5, Z: z}),
		cam.ToScreen(geom.DoublePoint3D{X: fx - 0.5, Y: fy + 0.5, Z: z}),
	}
}
