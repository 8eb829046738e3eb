package colors

import "image/color"

// Color is straight-alpha RGBA in [0..1].
type Color [4]float32

var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Magenta     = Color{1, 0, 1, 1}
	Cyan        = Color{0, 1, 1, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
)

// RGB8 builds an opaque color from 8-bit channels.
func RGB8(r, g, b uint8) Color { return RGBA8(r, g, b, 255) }

// RGBA8 builds a color from 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Bytes quantizes c to 8-bit channels, clamping out of range values.
func (c Color) Bytes() (r, g, b, a uint8) {
	return quantize(c[0]), quantize(c[1]), quantize(c[2]), quantize(c[3])
}

// NRGBA converts c for use with image/draw.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, a := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func quantize(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
