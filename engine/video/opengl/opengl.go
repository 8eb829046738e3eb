// Package opengl presents the main screen in a GLFW window. Drawing
// happens on the CPU screen image; EndFrame uploads it to a texture and
// draws it as one full-window quad.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/isoview/engine/core"
	"github.com/hubastard/isoview/engine/logging"
	"github.com/hubastard/isoview/engine/platform"
	"github.com/hubastard/isoview/engine/video"
)

const Name = "opengl"

func init() {
	video.Register(Name, func() video.RenderBackend { return New() })
}

type Backend struct {
	video.Base
	win   *platform.GLFWWindow
	title string
	onEv  func(core.Event)

	program uint32
	vao     uint32
	vbo     uint32
	tex     uint32
	texW    int
	texH    int
}

func New() *Backend {
	return &Backend{Base: video.NewBase(Name), title: "isoview"}
}

// CreateMainScreen opens the window on first use. Later calls keep the
// window and only resize the screen texture.
func (b *Backend) CreateMainScreen(width, height int, bitsPerPixel uint8, fullscreen bool) (*video.Image, error) {
	img, err := b.Base.CreateMainScreen(width, height, bitsPerPixel, fullscreen)
	if err != nil {
		return nil, err
	}
	if b.win == nil {
		win, err := platform.NewGLFWWindow(platform.WindowConfig{
			Title:        b.title,
			Width:        width,
			Height:       height,
			BitsPerPixel: b.ScreenBitsPerPixel(),
			Fullscreen:   fullscreen,
			VSync:        true,
		}, b.onEv)
		if err != nil {
			return nil, fmt.Errorf("%w: opengl: %w", video.ErrBackendFatal, err)
		}
		b.win = win
		if err := b.initGL(); err != nil {
			b.win.Destroy()
			b.win = nil
			return nil, fmt.Errorf("%w: opengl: %w", video.ErrBackendFatal, err)
		}
	}
	b.allocTexture(width, height)
	return img, nil
}

func (b *Backend) initGL() error {
	var err error
	b.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return err
	}

	// Full screen quad as a strip: pos (x,y), uv (u,v); v=0 is the top row
	verts := []float32{
		//  X,    Y,   U,   V
		-1.0, 1.0, 0.0, 0.0,
		-1.0, -1.0, 0.0, 1.0,
		1.0, 1.0, 1.0, 0.0,
		1.0, -1.0, 1.0, 1.0,
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	// layout(location = 0) in vec2 aPos;
	// layout(location = 1) in vec2 aUV;
	const stride = 4 * 4 // bytes
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.GenTextures(1, &b.tex)
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	gl.UseProgram(b.program)
	gl.Uniform1i(gl.GetUniformLocation(b.program, gl.Str("uScreen\x00")), 0)
	gl.UseProgram(0)

	// straight alpha screen over a black window
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

func (b *Backend) allocTexture(w, h int) {
	if b.texW == w && b.texH == h {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	b.texW, b.texH = w, h
}

func (b *Backend) EndFrame() error {
	err := b.Base.EndFrame()
	b.present()
	return err
}

func (b *Backend) present() {
	if b.win == nil {
		return
	}
	fw, fh := b.win.FramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	pix := b.ScreenImage().Pixels()
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(b.texW), int32(b.texH), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix.Pix))

	gl.UseProgram(b.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	b.win.SwapBuffers()
}

func (b *Backend) Deinit() {
	if b.win != nil {
		if b.tex != 0 {
			gl.DeleteTextures(1, &b.tex)
		}
		if b.vbo != 0 {
			gl.DeleteBuffers(1, &b.vbo)
		}
		if b.vao != 0 {
			gl.DeleteVertexArrays(1, &b.vao)
		}
		if b.program != 0 {
			gl.DeleteProgram(b.program)
		}
		b.tex, b.vbo, b.vao, b.program = 0, 0, 0, 0
		b.texW, b.texH = 0, 0
		b.win.Destroy()
		b.win = nil
		logging.Logger().Info("window closed", "backend", Name)
	}
	b.Base.Deinit()
}

// core.Window impl; everything before CreateMainScreen is remembered and
// applied to the window when it opens.

func (b *Backend) PollEvents() {
	if b.win != nil {
		b.win.PollEvents()
	}
}

func (b *Backend) ShouldClose() bool { return b.win != nil && b.win.ShouldClose() }

func (b *Backend) FramebufferSize() (int, int) {
	if b.win == nil {
		return b.Width(), b.Height()
	}
	return b.win.FramebufferSize()
}

func (b *Backend) SetTitle(title string) {
	b.title = title
	if b.win != nil {
		b.win.SetTitle(title)
	}
}

func (b *Backend) SetEventCallback(cb func(core.Event)) {
	b.onEv = cb
	if b.win != nil {
		b.win.SetEventCallback(cb)
	}
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
out vec2 vUV;
void main() {
    vUV = aUV;
    gl_Position = vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
in vec2 vUV;
uniform sampler2D uScreen;
out vec4 FragColor;
void main() {
    FragColor = texture(uScreen, vUV);
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
