package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/driver"
)

const windowTitle = "Chip-8"

// Pixel shaders. Vertex positions are already in clip space; lit pixels are
// filled with the pixelColor uniform.
const (
	pixelVertexShader = `#version 410 core
layout(location = 0) in vec2 corner;
void main() { gl_Position = vec4(corner, 0.0, 1.0); }
` + "\x00"

	pixelFragmentShader = `#version 410 core
uniform vec4 pixelColor;
out vec4 color;
void main() { color = pixelColor; }
` + "\x00"
)

var (
	litColor        = [4]float32{0.85, 0.85, 0.85, 1}
	backgroundColor = [4]float32{0.1, 0.1, 0.1, 0}
)

// windowHost connects the driver to a GLFW window. All methods run on the
// main thread.
type windowHost struct {
	window *glfw.Window
	vertex []uint32
	keypad *keypad
	driver *driver.Driver
	cancel context.CancelFunc
	title  string
}

func newWindowHost(window *glfw.Window, vertex []uint32, cancel context.CancelFunc) *windowHost {
	h := &windowHost{
		window: window,
		vertex: vertex,
		keypad: &keypad{},
		cancel: cancel,
		title:  windowTitle,
	}
	window.SetKeyCallback(h.keypad.callback)
	window.SetFramebufferSizeCallback(framebufferResized)
	return h
}

func (h *windowHost) PollInput() driver.Input {
	glfw.PollEvents()
	if h.window.ShouldClose() {
		h.cancel()
	}
	h.updateTitle()
	return driver.Input{
		Keys:  h.keypad.keys,
		Reset: h.keypad.takeReset(),
	}
}

func (h *windowHost) Present(frame chip8.Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	n := fillVerticesToDraw(&frame, h.vertex)
	if n > 0 {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, n*4, gl.Ptr(h.vertex))
		gl.DrawElements(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	h.window.SwapBuffers()
}

// updateTitle shows the halting fault, if any, in the window title.
func (h *windowHost) updateTitle() {
	title := windowTitle
	if err := h.driver.Err(); err != nil {
		title = fmt.Sprintf("%s - halted: %v (Backspace to reset)", windowTitle, err)
	}
	if title != h.title {
		h.window.SetTitle(title)
		h.title = title
	}
}

// framebufferResized stretches the display over the new framebuffer.
func framebufferResized(_ *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// fillVerticesToDraw writes two triangles for every lit pixel into vertex
// and returns the number of indices written.
func fillVerticesToDraw(frame *chip8.Frame, vertex []uint32) int {
	h := chip8.DisplayHeight + 1
	n := 0
	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if !frame.Pixel(x, y) {
				continue
			}
			// Corners of quad
			q1 := uint32(x*h + y)
			q2 := uint32(x*h + y + 1)
			q3 := uint32((x+1)*h + y)
			q4 := uint32((x+1)*h + y + 1)
			copy(vertex[n:], []uint32{q1, q2, q3, q2, q3, q4})
			n += 6
		}
	}
	return n
}

// glObjectStatus turns a failed compile or link status of a shader or
// program into an error carrying the driver's info log.
func glObjectStatus(object, status uint32,
	getiv func(uint32, uint32, *int32),
	getInfoLog func(uint32, int32, *int32, *uint8)) error {

	var ok int32
	getiv(object, status, &ok)
	if ok != gl.FALSE {
		return nil
	}

	var size int32
	getiv(object, gl.INFO_LOG_LENGTH, &size)
	if size == 0 {
		return errors.New("no info log")
	}
	info := make([]byte, size)
	var written int32
	getInfoLog(object, size, &written, &info[0])
	return errors.New(strings.TrimRight(string(info[:written]), "\x00\n"))
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	src, free := gl.Strs(source)
	defer free()
	gl.ShaderSource(shader, 1, src, nil)
	gl.CompileShader(shader)
	return shader, glObjectStatus(shader, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog)
}

func linkProgram(shaders ...uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, shader := range shaders {
		gl.AttachShader(program, shader)
	}
	gl.BindFragDataLocation(program, 0, gl.Str("color\x00"))
	gl.LinkProgram(program)
	for _, shader := range shaders {
		gl.DeleteShader(shader)
	}
	return program, glObjectStatus(program, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog)
}

// glSetup uploads the pixel grid and compiles the shaders. It returns the
// index buffer that fillVerticesToDraw fills.
//
// The vertices are numbered starting from the top left and going down,
// proceeding right after the last row is reached. The vertex at position
// (x,y) is numbered 33*x+y:
//   - (0,0) is vertex 0
//   - (0,1) is vertex 1
//   - (1,0) is vertex 33
//   - etc.
//
//	     x  0 1     ...      64
//	     --->
//	 y |
//	   |  +---------------------+
//	 0 v  | . . . . . . . . . . |
//	 1    | . . . . . . . . . . |
//	...   | . . . . . . . . . . |
//	32    | . . . . . . . . . . |
//	      +---------------------+
func glSetup() (vertex []uint32, err error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	w, h := chip8.DisplayWidth+1, chip8.DisplayHeight+1
	ncoords := w * h * 2 // 2 coordinates for each vertex
	buf := make([]float32, ncoords)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			i := 2 * (x*h + y)
			buf[i] = -1 + float32(x)/float32(chip8.DisplayWidth/2)
			buf[i+1] = 1 - float32(y)/float32(chip8.DisplayHeight/2)
		}
	}

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STATIC_DRAW)

	// Every pixel may need a quad of 6 indices.
	vertex = make([]uint32, chip8.DisplayWidth*chip8.DisplayHeight*6)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(
		gl.ELEMENT_ARRAY_BUFFER, len(vertex)*4, gl.Ptr(vertex), gl.DYNAMIC_DRAW)

	vertexShader, err := compileShader(gl.VERTEX_SHADER, pixelVertexShader)
	if err != nil {
		return nil, fmt.Errorf("compiling vertex shader: %w", err)
	}
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, pixelFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling fragment shader: %w", err)
	}
	program, err := linkProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("linking shader program: %w", err)
	}
	gl.UseProgram(program)
	gl.Uniform4fv(gl.GetUniformLocation(program, gl.Str("pixelColor\x00")), 1, &litColor[0])

	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)

	if err := gl.GetError(); err != gl.NO_ERROR {
		return nil, fmt.Errorf("GL error: 0x%x", err)
	}

	gl.ClearColor(backgroundColor[0], backgroundColor[1], backgroundColor[2], backgroundColor[3])
	return vertex, nil
}
