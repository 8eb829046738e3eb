package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/hubastard/isoview/engine/assets"
	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/core"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/profiler"
	"github.com/hubastard/isoview/engine/scene"
	"github.com/hubastard/isoview/engine/video"
	"github.com/hubastard/isoview/engine/view/renderers"
)

const mapSize = 16

// Demo shows a small isometric map: grid, a few sprites, an orbiting
// animated beacon, object coordinates and a stats overlay.
type Demo struct {
	frames  int
	assets  string
	capture string
	err     error

	ground *scene.Layer
	beacon *scene.Object
	coords *renderers.CoordinateRenderer
	orbit  float64
	last   video.Statistics
}

func (d *Demo) OnStart(e *core.Engine) error {
	be := e.Backend
	if err := d.loadSprites(e); err != nil {
		return err
	}
	d.ground = d.buildMap()

	centre := geom.DoublePoint3D{X: mapSize / 2, Y: mapSize / 2}
	cam, err := e.View.AddCamera("main", d.ground, be.Area(), centre)
	if err != nil {
		return err
	}
	cam.SetRotation(45)
	cam.SetTilt(60)
	e.View.SetCuller(scene.ViewportCuller{Margin: 64})

	selection := renderers.NewSelectionRenderer(be, 2)
	selection.SetColor(colors.RGB8(60, 90, 60))
	for _, p := range []geom.Point{{X: 7, Y: 7}, {X: 8, Y: 7}, {X: 7, Y: 8}, {X: 8, Y: 8}} {
		selection.Select(d.ground, p)
	}
	d.coords = renderers.NewCoordinateRenderer(be, 10, e.Font)

	e.View.AddRenderer(renderers.NewGridRenderer(be, 0))
	e.View.AddRenderer(selection)
	e.View.AddRenderer(renderers.NewInstanceRenderer(be, 5))
	e.View.AddRenderer(d.coords)
	e.View.AddRenderer(renderers.NewOverlayRenderer(be, 100, e.Font, func() []string { return d.hud(e) }))

	e.PushLayer(scene.NewCameraController(cam))
	return nil
}

func (d *Demo) buildMap() *scene.Layer {
	ground := scene.NewLayer("ground", geom.NewRect(0, 0, mapSize, mapSize))
	for y := 0; y < mapSize; y++ {
		for x := 0; x < mapSize; x++ {
			at := geom.DoublePoint3D{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			switch {
			case (x*7+y*3)%11 == 0:
				o := scene.NewObject(fmt.Sprintf("tree-%d-%d", x, y), at)
				o.SetImage("tree")
				ground.Add(o)
			case (x*5+y*9)%23 == 0:
				o := scene.NewObject(fmt.Sprintf("crate-%d-%d", x, y), at)
				o.SetImage("crate")
				ground.Add(o)
			}
		}
	}
	d.beacon = scene.NewObject("beacon", geom.DoublePoint3D{X: mapSize / 2, Y: mapSize / 2})
	d.beacon.SetAnimation("beacon")
	ground.Add(d.beacon)
	return ground
}

// loadSprites reads the sprites from the assets directory, or draws
// built-in ones.
func (d *Demo) loadSprites(e *core.Engine) error {
	if d.assets != "" {
		for _, id := range []string{"tree", "crate"} {
			if _, err := e.Images.Load(id, filepath.Join(d.assets, id+".png")); err != nil {
				return err
			}
		}
		_, err := e.Animations.LoadSheet("beacon", filepath.Join(d.assets, "beacon.png"), 8, 8, 250*time.Millisecond)
		return err
	}

	sprites := map[string]*image.NRGBA{
		"tree":  treeSprite(),
		"crate": crateSprite(),
	}
	for id, m := range sprites {
		img, err := e.Backend.CreateImageFromSurface(m)
		if err != nil {
			return fmt.Errorf("sprite %s: %w", id, err)
		}
		e.Images.Add(id, img)
	}

	sheet := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	fill(sheet, image.Rect(0, 0, 8, 8), color.NRGBA{230, 40, 40, 255})
	fill(sheet, image.Rect(8, 0, 16, 8), color.NRGBA{250, 220, 40, 255})
	img, err := e.Backend.CreateImageFromSurface(sheet)
	if err != nil {
		return fmt.Errorf("beacon sheet: %w", err)
	}
	e.Animations.Add("beacon", &assets.Animation{
		Frames:    []*video.Image{assets.FromGrid(img, 0, 0, 8, 8), assets.FromGrid(img, 1, 0, 8, 8)},
		FrameTime: 250 * time.Millisecond,
		Loop:      true,
	})
	return nil
}

func (d *Demo) OnUpdate(e *core.Engine, dt float64) {
	d.orbit += dt
	d.beacon.MoveTo(geom.DoublePoint3D{
		X: mapSize/2 + 3*math.Cos(d.orbit),
		Y: mapSize/2 + 3*math.Sin(d.orbit),
	})
}

func (d *Demo) OnRender(e *core.Engine, alpha float64) {
	// the previous frame's totals; the next StartFrame resets them
	d.last = e.Backend.Stats()
	if d.frames > 0 && e.Frames()+1 >= d.frames {
		e.Quit()
	}
}

func (d *Demo) hud(e *core.Engine) []string {
	s := d.last
	return []string{
		fmt.Sprintf("%s  frame %d", e.Backend.Name(), e.Frames()),
		fmt.Sprintf("draw calls %d (lines %d, quads %d, images %d)", s.DrawCalls(), s.Lines, s.Quads, s.Images),
		fmt.Sprintf("heap %.1f MB, %d goroutines", float64(profiler.MemoryUsage())/(1<<20), profiler.NumGoroutine()),
		"WASD move, Q/E zoom, Space coordinates, Esc quit",
	}
}

func (d *Demo) OnEvent(e *core.Engine, ev core.Event) {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return
	}
	switch k.Key {
	case core.KeyEscape:
		e.Quit()
	case core.KeySpace:
		d.coords.SetEnabled(!d.coords.Enabled())
	}
}

func (d *Demo) OnShutdown(e *core.Engine) {
	if d.capture == "" {
		return
	}
	if err := e.Backend.CaptureScreen(d.capture); err != nil {
		d.err = err
		return
	}
	log.Println("captured", d.capture)
}

func fill(m *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(m, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func treeSprite() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 20, 40))
	fill(m, image.Rect(8, 28, 12, 40), color.NRGBA{110, 70, 30, 255})
	for y := 0; y < 30; y++ {
		half := y / 3
		fill(m, image.Rect(10-half, y, 10+half+1, y+1), color.NRGBA{40, 140 + uint8(y*2), 60, 255})
	}
	return m
}

func crateSprite() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 24, 24))
	fill(m, m.Bounds(), color.NRGBA{90, 60, 30, 255})
	fill(m, image.Rect(2, 2, 22, 22), color.NRGBA{170, 120, 60, 255})
	return m
}
