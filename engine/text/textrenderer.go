package text

import (
	"image"
	"image/draw"
	"strings"

	"github.com/hubastard/isoview/engine/colors"
	"github.com/hubastard/isoview/engine/geom"
	"github.com/hubastard/isoview/engine/video"
)

// maxLabels bounds the rendered-string cache; it is dropped wholesale
// when full.
const maxLabels = 1024

type labelKey struct {
	s string
	c colors.Color
}

func (f *Font) LineHeight() int       { return f.Ascent + f.Descent + f.LineGap }
func (f *Font) BaselineToTop() int    { return f.Ascent }
func (f *Font) BaselineToBottom() int { return f.Descent }

// DrawText draws s with its top-left corner at (x, y). Newlines start a new
// line. Must be called inside a frame.
func (f *Font) DrawText(be video.RenderBackend, x, y int, s string, c colors.Color) error {
	key := labelKey{s, c}
	img, ok := f.labels[key]
	if !ok {
		surf := f.Rasterize(s, c)
		if surf == nil {
			return nil
		}
		var err error
		img, err = be.CreateImageFromSurface(surf)
		if err != nil {
			return err
		}
		if len(f.labels) >= maxLabels {
			clear(f.labels)
		}
		f.labels[key] = img
	}
	be.DrawImage(img, geom.Pt(x, y))
	return nil
}

// Rasterize renders s in c onto a new straight-alpha image sized by
// MeasureText. It returns nil for text with no extent.
func (f *Font) Rasterize(s string, c colors.Color) *image.NRGBA {
	w, h := f.MeasureText(s)
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := image.NewUniform(c.NRGBA())

	baseY := f.Ascent
	for _, line := range strings.Split(s, "\n") {
		penX := 0
		f.walk(line, func(g Glyph, kern int) {
			penX += kern
			if !g.Atlas.Empty() {
				left := penX + g.BearingX
				top := baseY - g.BearingY
				r := image.Rect(left, top, left+g.W, top+g.H)
				draw.DrawMask(dst, r, src, image.Point{}, f.Atlas, g.Atlas.Min, draw.Over)
			}
			penX += g.Advance
		})
		baseY += f.LineHeight()
	}
	return dst
}

// MeasureText returns the pixel size of s: the widest line by the number
// of lines times LineHeight. Empty text measures 0x0.
func (f *Font) MeasureText(s string) (w, h int) {
	if s == "" {
		return 0, 0
	}
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		lineW := 0
		f.walk(line, func(g Glyph, kern int) { lineW += kern + g.Advance })
		w = max(w, lineW)
	}
	return w, len(lines) * f.LineHeight()
}

// walk yields the glyph of every rune in line with the kerning to apply
// before it. Runes without a glyph advance like a space.
func (f *Font) walk(line string, fn func(g Glyph, kern int)) {
	prev := rune(-1)
	for _, r := range line {
		g, ok := f.Glyphs[r]
		if !ok {
			fn(Glyph{Rune: r, Advance: f.Glyphs[' '].Advance}, 0)
			prev = -1
			continue
		}
		kern := 0
		if prev >= 0 && f.Face != nil {
			kern = f.Face.Kern(prev, r).Round()
		}
		fn(g, kern)
		prev = r
	}
}
