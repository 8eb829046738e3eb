// Package text rasterizes TrueType fonts into an alpha glyph atlas and
// draws strings through any video.RenderBackend.
package text

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/isoview/engine/video"
)

type Glyph struct {
	Rune     rune
	Advance  int // pixels
	BearingX int // left bearing in pixels
	BearingY int // distance from baseline to glyph top
	W, H     int
	Atlas    image.Rectangle // glyph cell in Font.Atlas
}

// Font is a rasterized face at one pixel size. Ascent and Descent are both
// positive distances from the baseline.
type Font struct {
	SizePx                   float64
	Ascent, Descent, LineGap int
	Glyphs                   map[rune]Glyph
	Atlas                    *image.Alpha
	Face                     font.Face

	labels map[labelKey]*video.Image
}

const (
	atlasPadding = 1
	maxAtlasSize = 4096
)

// Latin1 is the printable Latin-1 range, the glyph set used when none is
// given.
var Latin1 = func() string {
	rs := make([]rune, 0, 224)
	for r := rune(32); r <= 255; r++ {
		rs = append(rs, r)
	}
	return string(rs)
}()

// DefaultFont returns Go Regular at sizePx.
func DefaultFont(sizePx float64, glyphs string) (*Font, error) {
	return NewFont(goregular.TTF, sizePx, glyphs)
}

// LoadFont reads a TTF or OTF file.
func LoadFont(path string, sizePx float64, glyphs string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewFont(data, sizePx, glyphs)
}

// NewFont parses ttf and builds a coverage atlas holding the runes of
// glyphs, or Latin1 when glyphs is empty. The space glyph is always
// included.
func NewFont(ttf []byte, sizePx float64, glyphs string) (*Font, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("font size %v", sizePx)
	}
	if glyphs == "" {
		glyphs = Latin1
	}
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: sizePx, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	descent := m.Descent.Ceil()
	lineGap := max(m.Height.Ceil()-ascent-descent, 0)

	type meas struct {
		r      rune
		w, h   int
		adv    int
		bx, by int
	}
	seen := map[rune]bool{}
	measure := make([]meas, 0, len(glyphs)+1)
	for _, r := range " " + glyphs {
		if seen[r] {
			continue
		}
		seen[r] = true
		br, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		minX, minY := br.Min.X.Floor(), br.Min.Y.Floor()
		maxX, maxY := br.Max.X.Ceil(), br.Max.Y.Ceil()
		measure = append(measure, meas{
			r: r,
			w: maxX - minX, h: maxY - minY,
			adv: adv.Round(),
			bx:  minX, by: -minY,
		})
	}

	// shelf packer, grown until everything fits
	atlasSize := 256
	var pos map[rune]image.Point
	for {
		x, y, rowH := atlasPadding, atlasPadding, 0
		fits := true
		pos = make(map[rune]image.Point, len(measure))
		for _, g := range measure {
			if g.w <= 0 || g.h <= 0 {
				continue
			}
			if g.w+atlasPadding*2 > atlasSize || g.h+atlasPadding*2 > atlasSize {
				fits = false
				break
			}
			if x+g.w+atlasPadding > atlasSize {
				x = atlasPadding
				y += rowH + atlasPadding
				rowH = 0
			}
			if y+g.h+atlasPadding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + atlasPadding
			rowH = max(rowH, g.h)
		}
		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > maxAtlasSize {
			_ = face.Close()
			return nil, fmt.Errorf("font atlas too large (>%d)", maxAtlasSize)
		}
	}

	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	drawer := &font.Drawer{Dst: atlas, Src: image.Opaque, Face: face}

	table := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		gl := Glyph{Rune: g.r, Advance: g.adv, BearingX: g.bx, BearingY: g.by}
		if p, ok := pos[g.r]; ok {
			drawer.Dot = fixed.P(p.X-g.bx, p.Y+g.by)
			drawer.DrawString(string(g.r))
			gl.W, gl.H = g.w, g.h
			gl.Atlas = image.Rect(p.X, p.Y, p.X+g.w, p.Y+g.h)
		}
		table[g.r] = gl
	}

	return &Font{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs: table,
		Atlas:  atlas,
		Face:   face,
		labels: make(map[labelKey]*video.Image),
	}, nil
}

func (f *Font) Close() error {
	if f == nil || f.Face == nil {
		return nil
	}
	err := f.Face.Close()
	f.Face = nil
	clear(f.labels)
	return err
}
