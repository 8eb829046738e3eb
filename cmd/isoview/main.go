package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/hubastard/isoview/engine/core"
	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/profiler"
	"github.com/hubastard/isoview/engine/video"
	_ "github.com/hubastard/isoview/engine/video/opengl"
	"github.com/hubastard/isoview/engine/video/software"
	_ "github.com/hubastard/isoview/engine/video/terminal"
)

type options struct {
	backend    string
	width      int
	height     int
	bpp        uint
	fullscreen bool
	fakeAlpha  bool
	font       string
	fontSize   float64
	frames     int
	assets     string
	capture    string
	profile    string
	verbose    bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.backend, "backend", software.Name,
		"render backend: "+strings.Join(video.Available(), ", "))
	flag.IntVar(&o.width, "width", 800, "screen width in pixels")
	flag.IntVar(&o.height, "height", 600, "screen height in pixels")
	flag.UintVar(&o.bpp, "bpp", 0, "bits per pixel (0 = automatic, 16, 24, 32)")
	flag.BoolVar(&o.fullscreen, "fullscreen", false, "open a fullscreen window")
	flag.BoolVar(&o.fakeAlpha, "remove-fake-alpha", true, "skip blending for opaque and fully transparent pixels")
	flag.StringVar(&o.font, "font", "", "TTF/OTF font file (default: built-in)")
	flag.Float64Var(&o.fontSize, "font-size", 10, "font size in pixels")
	flag.IntVar(&o.frames, "frames", 0, "stop after this many frames (0 = until closed; software renders 1)")
	flag.StringVar(&o.assets, "assets", "", "directory with tree.png, crate.png and beacon.png overriding the built-in sprites")
	flag.StringVar(&o.capture, "capture", "", "save the last frame to this file (.png, .tif, .bmp)")
	flag.StringVar(&o.profile, "profile", "", "write a speedscope profile here (needs -tags profile)")
	flag.BoolVar(&o.verbose, "v", false, "debug logging to stderr")
	flag.Parse()
	if o.frames == 0 && o.backend == software.Name {
		o.frames = 1
	}
	return o
}

func settingsFrom(o options) (core.EngineSettings, error) {
	s := core.DefaultSettings()
	if err := s.SetRenderBackend(o.backend); err != nil {
		return s, err
	}
	if o.bpp > 255 {
		return s, fmt.Errorf("%w: %d bits per pixel", core.ErrNotSupported, o.bpp)
	}
	if err := s.SetBitsPerPixel(uint8(o.bpp)); err != nil {
		return s, err
	}
	if err := s.SetDefaultFontPath(o.font); err != nil {
		return s, err
	}
	s.SetScreenWidth(o.width)
	s.SetScreenHeight(o.height)
	s.SetFullScreen(o.fullscreen)
	s.SetSDLRemoveFakeAlpha(o.fakeAlpha)
	s.SetDefaultFontSize(o.fontSize)
	s.SetWindowTitle("isoview")
	if o.backend == software.Name {
		s.SetFrameRateLimit(0)
	}
	return s, s.Validate()
}

func main() {
	o := parseFlags()
	if o.verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	settings, err := settingsFrom(o)
	if err != nil {
		log.Fatal(err)
	}

	if o.profile != "" {
		profiler.Init(1 << 16)
	}

	app := &Demo{frames: o.frames, assets: o.assets, capture: o.capture}
	if err := core.Run(app, settings); err != nil {
		log.Fatal(err)
	}
	if app.err != nil {
		log.Fatal(app.err)
	}

	if o.profile != "" {
		if !profiler.Enabled() {
			log.Println("profile not written: build with -tags profile")
			return
		}
		if err := profiler.Dump(o.profile); err != nil {
			log.Fatal(err)
		}
		log.Println("speedscope dump:", o.profile)
	}
}
