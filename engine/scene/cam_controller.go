package scene

import (
	"math"

	"github.com/hubastard/isoview/engine/core"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/view"
)

// CameraController: WASD (or arrows) move along the screen axes, Q/E and
// the scroll wheel zoom out/in. It is a core.Layer; push it on the
// engine's layer stack.
type CameraController struct {
	MoveSpeed float64 // cells per second at zoom 1
	ZoomSpeed float64 // zoom factor per second
	MinZoom   float64
	MaxZoom   float64
	Camera    *view.Camera
}

func NewCameraController(cam *view.Camera) *CameraController {
	return &CameraController{
		MoveSpeed: 8,
		ZoomSpeed: 2,
		MinZoom:   0.25,
		MaxZoom:   4,
		Camera:    cam,
	}
}

func (cc *CameraController) OnAttach(*core.Engine)                 {}
func (cc *CameraController) OnDetach(*core.Engine)                 {}
func (cc *CameraController) OnRender(*core.Engine, float64)        {}
func (cc *CameraController) OnEvent(*core.Engine, core.Event) bool { return false }

func (cc *CameraController) OnUpdate(e *core.Engine, dt float64) {
	cc.Update(e.Input, dt)
}

func (cc *CameraController) Update(in *core.Input, dt float64) {
	cam := cc.Camera
	if cam == nil {
		return
	}

	var sx, sy float64
	if in.IsKeyDown(core.KeyW) || in.IsKeyDown(core.KeyUp) {
		sy--
	}
	if in.IsKeyDown(core.KeyS) || in.IsKeyDown(core.KeyDown) {
		sy++
	}
	if in.IsKeyDown(core.KeyA) || in.IsKeyDown(core.KeyLeft) {
		sx--
	}
	if in.IsKeyDown(core.KeyD) || in.IsKeyDown(core.KeyRight) {
		sx++
	}
	if sx != 0 || sy != 0 {
		step := cc.MoveSpeed * dt / cam.Zoom()
		right, down := screenAxes(cam)
		d := right.Mul(sx).Add(down.Mul(sy))
		if l := d.Length(); l > 0 {
			d = d.Mul(step / l)
		}
		cam.Move(geom.DoublePoint3D{X: d.X, Y: d.Y})
	}

	zoom := 0.0
	if in.IsKeyDown(core.KeyQ) {
		zoom--
	}
	if in.IsKeyDown(core.KeyE) {
		zoom++
	}
	factor := math.Pow(cc.ZoomSpeed, zoom*dt)
	if s := in.TakeScroll(); s != 0 {
		factor *= math.Pow(1.1, s)
	}
	if factor != 1 {
		cam.SetZoom(min(max(cam.Zoom()*factor, cc.MinZoom), cc.MaxZoom))
	}
}

// screenAxes returns the unit map directions of screen right and screen
// down for cam.
func screenAxes(cam *view.Camera) (right, down geom.DoublePoint) {
	vp := cam.Viewport()
	c := geom.Pt(vp.X+vp.W/2, vp.Y+vp.H/2)
	o := cam.ToMap(c)
	r := cam.ToMap(c.Add(geom.Pt(100, 0)))
	d := cam.ToMap(c.Add(geom.Pt(0, 100)))
	right = unit(geom.DoublePoint{X: r.X - o.X, Y: r.Y - o.Y})
	down = unit(geom.DoublePoint{X: d.X - o.X, Y: d.Y - o.Y})
	return right, down
}

func unit(p geom.DoublePoint) geom.DoublePoint {
	if l := p.Length(); l > 0 {
		return p.Div(l)
	}
	return p
}
