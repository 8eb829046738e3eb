package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/hubastard/isoview/engine/video"
	"github.com/hubastard/isoview/engine/video/software"
)

// writeStrip writes n w x h cells side by side, cell i filled with cs[i].
func writeStrip(t *testing.T, path string, w, h int, cs ...color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w*len(cs), h))
	for i, c := range cs {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetNRGBA(i*w+x, y, c)
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if filepath.Ext(path) == ".bmp" {
		err = bmp.Encode(f, img)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatal(err)
	}
}

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
	half = color.NRGBA{0, 255, 0, 128}
)

func firstPixel(t *testing.T, img *video.Image) color.NRGBA {
	t.Helper()
	r, g, b, a, err := img.PixelRGBA(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return color.NRGBA{r, g, b, a}
}

func TestLoadPixels(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file string
		c    color.NRGBA
	}{
		{"straight.png", half},
		{"opaque.bmp", red},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeStrip(t, path, 3, 2, tt.c)
			w, h, pix, err := LoadPixels(path)
			if err != nil {
				t.Fatalf("LoadPixels() error = %v", err)
			}
			if w != 3 || h != 2 || len(pix) != 3*2*4 {
				t.Fatalf("LoadPixels() = %d, %d, %d bytes, want 3, 2, 24 bytes", w, h, len(pix))
			}
			got := color.NRGBA{pix[0], pix[1], pix[2], pix[3]}
			if got != tt.c {
				t.Errorf("pixel = %v, want %v", got, tt.c)
			}
		})
	}
}

func TestLoadPixelsErrors(t *testing.T) {
	dir := t.TempDir()
	if _, _, _, err := LoadPixels(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := LoadPixels(junk); err == nil {
		t.Error("LoadPixels(junk) error = nil, want decode error")
	}
}

func TestImagePool(t *testing.T) {
	dir := t.TempDir()
	writeStrip(t, filepath.Join(dir, "tile.png"), 4, 4, blue)

	p := NewImagePool(software.New(), dir)
	img, err := p.Load("tile", "tile.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, ok := p.Image("tile")
	if !ok || got != img {
		t.Fatalf("Image(tile) = %v, %v, want the loaded image", got, ok)
	}
	if c := firstPixel(t, got); c != blue {
		t.Errorf("pixel = %v, want %v", c, blue)
	}
	if _, ok := p.Image("nope"); ok {
		t.Error("Image(nope) found")
	}

	p.Add("blank", video.NewImage(1, 1))
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
	p.Remove("tile")
	if _, ok := p.Image("tile"); ok {
		t.Error("Image(tile) found after Remove")
	}
	if _, err := p.Load("gone", "gone.png"); err == nil {
		t.Error("Load(gone.png) error = nil")
	}
}

func TestAnimationPoolLoadSheet(t *testing.T) {
	dir := t.TempDir()
	writeStrip(t, filepath.Join(dir, "blink.png"), 4, 4, red, blue)

	anims := NewAnimationPool(NewImagePool(software.New(), dir))
	a, err := anims.LoadSheet("blink", "blink.png", 4, 4, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("LoadSheet() error = %v", err)
	}
	if len(a.Frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(a.Frames))
	}

	tests := []struct {
		elapsed time.Duration
		want    color.NRGBA
	}{
		{0, red},
		{99 * time.Millisecond, red},
		{100 * time.Millisecond, blue},
		{250 * time.Millisecond, red},
	}
	for _, tt := range tests {
		img, ok := anims.Frame("blink", tt.elapsed)
		if !ok {
			t.Fatalf("Frame(%v) not found", tt.elapsed)
		}
		if img.Width() != 4 || img.Height() != 4 {
			t.Errorf("Frame(%v) size = %dx%d, want 4x4", tt.elapsed, img.Width(), img.Height())
		}
		if c := firstPixel(t, img); c != tt.want {
			t.Errorf("Frame(%v) pixel = %v, want %v", tt.elapsed, c, tt.want)
		}
	}

	if _, ok := anims.Frame("missing", 0); ok {
		t.Error("Frame(missing) found")
	}
	if _, err := anims.LoadSheet("big", "blink.png", 16, 16, time.Second); !errors.Is(err, video.ErrInvalidImageData) {
		t.Errorf("oversized cell error = %v, want ErrInvalidImageData", err)
	}
	if a, err := anims.LoadSheet("ragged", "blink.png", 3, 4, time.Second); !errors.Is(err, video.ErrInvalidImageData) {
		t.Errorf("LoadSheet(3x4 cells of 8x4) = %v, %v, want ErrInvalidImageData", a, err)
	}
	if _, ok := anims.images.Image("ragged"); ok {
		t.Error("rejected sheet left in the image pool")
	}
}

func TestAnimationHoldsLastFrame(t *testing.T) {
	first, last := video.NewImage(1, 1), video.NewImage(1, 1)
	a := &Animation{Frames: []*video.Image{first, last}, FrameTime: time.Second}
	if got := a.Frame(10 * time.Second); got != last {
		t.Error("non-looping animation did not hold its last frame")
	}
	if got := (&Animation{}).Frame(time.Second); got != nil {
		t.Error("empty animation returned a frame")
	}
}
