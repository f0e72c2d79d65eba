// Package glview draws the scene with OpenGL 4.1 core in a GLFW window.
package glview

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taigrr/phong/internal/driver"
	"github.com/taigrr/phong/pkg/shader"
)

func init() {
	// GLFW event handling and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// Backend is a GLFW window with one Phong program and one vertex buffer.
type Backend struct {
	logger *log.Logger

	window  *glfw.Window
	program *program
	mesh    *meshBuffer
	maps    [2]uint32 // Diffuse and specular texture handles; 0 when absent

	keys    keyLatch
	resized bool
	fbW     int
	fbH     int
	glfwUp  bool
}

var _ driver.Backend = (*Backend)(nil)

// New returns a backend that logs to logger. Nothing is created until Init.
func New(logger *log.Logger) *Backend {
	return &Backend{logger: logger, keys: keyLatch{}}
}

// Init opens the window, creates the context and uploads the program,
// mesh and textures. On failure everything created so far is released.
func (b *Backend) Init(rc *driver.RenderContext) (err error) {
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	b.glfwUp = true

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	b.window, err = glfw.CreateWindow(rc.Width, rc.Height, rc.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	b.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("init gl: %w", err)
	}
	b.logger.Info("opengl context",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)))

	// Retina displays report a framebuffer larger than the window.
	b.fbW, b.fbH = b.window.GetFramebufferSize()
	b.resized = true
	gl.Viewport(0, 0, int32(b.fbW), int32(b.fbH))
	b.window.SetFramebufferSizeCallback(b.onFramebufferSize)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	sources := shader.Embedded()
	if rc.ShaderDir != "" {
		sources = shader.Dir(rc.ShaderDir)
	}
	opts := shader.Options{Lights: len(rc.Scene.Lights), Textured: rc.Scene.Textured()}
	b.program, err = buildProgram(sources, opts, b.logger)
	if err != nil {
		return err
	}

	b.mesh = uploadMesh(rc.Scene.Mesh.Interleaved())
	b.logger.Debug("uploaded mesh", "vertices", b.mesh.count)

	if opts.Textured {
		b.maps[0] = uploadTexture(rc.Scene.DiffuseMap, "diffuse", b.logger)
		b.maps[1] = uploadTexture(rc.Scene.SpecularMap, "specular", b.logger)
	}
	return nil
}

func (b *Backend) onFramebufferSize(_ *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	b.fbW, b.fbH = width, height
	b.resized = true
	b.logger.Debug("viewport", "width", width, "height", height)
}

// Clock returns seconds since GLFW was initialized.
func (b *Backend) Clock() float64 {
	return glfw.GetTime()
}

// Poll processes window events and reports key presses. Zoom keys count
// once per press, not once per frame held.
func (b *Backend) Poll(*driver.RenderContext) driver.Input {
	glfw.PollEvents()

	var in driver.Input
	in.Escape = b.window.GetKey(glfw.KeyEscape) == glfw.Press
	if b.keys.pressed(glfw.KeyEqual, b.down(glfw.KeyEqual)) || b.keys.pressed(glfw.KeyKPAdd, b.down(glfw.KeyKPAdd)) {
		in.Zoom++
	}
	if b.keys.pressed(glfw.KeyMinus, b.down(glfw.KeyMinus)) || b.keys.pressed(glfw.KeyKPSubtract, b.down(glfw.KeyKPSubtract)) {
		in.Zoom--
	}
	if b.resized {
		in.Width, in.Height = b.fbW, b.fbH
		b.resized = false
	}
	return in
}

func (b *Backend) down(k glfw.Key) bool {
	return b.window.GetKey(k) == glfw.Press
}

// ShouldClose reports the window's close flag.
func (b *Backend) ShouldClose() bool {
	return b.window.ShouldClose()
}

// Draw uploads the frame's uniforms and draws the mesh.
func (b *Backend) Draw(rc *driver.RenderContext, f driver.Frame) error {
	bg := rc.Scene.Background
	gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	b.program.use()
	b.program.setFrame(f)
	b.program.setMaterial(rc.Scene.Material)
	b.program.setLights(rc.Scene.Lights)

	if b.program.textured {
		gl.ActiveTexture(gl.TEXTURE0 + shader.DiffuseUnit)
		gl.BindTexture(gl.TEXTURE_2D, b.maps[0])
		gl.ActiveTexture(gl.TEXTURE0 + shader.SpecularUnit)
		gl.BindTexture(gl.TEXTURE_2D, b.maps[1])
	}

	b.mesh.draw()

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Present swaps the back buffer in.
func (b *Backend) Present(*driver.RenderContext) error {
	b.window.SwapBuffers()
	return nil
}

// Close deletes the GL objects and the window and terminates GLFW. It is
// safe after a partial Init.
func (b *Backend) Close() error {
	if b.mesh != nil {
		b.mesh.delete()
		b.mesh = nil
	}
	if b.program != nil {
		b.program.delete()
		b.program = nil
	}
	for i, tex := range b.maps {
		if tex != 0 {
			gl.DeleteTextures(1, &tex)
			b.maps[i] = 0
		}
	}
	if b.window != nil {
		b.window.Destroy()
		b.window = nil
	}
	if b.glfwUp {
		glfw.Terminate()
		b.glfwUp = false
	}
	return nil
}

// keyLatch turns held keys into single presses.
type keyLatch map[glfw.Key]bool

// pressed records the key state and reports a released-to-down edge.
func (l keyLatch) pressed(k glfw.Key, down bool) bool {
	was := l[k]
	l[k] = down
	return down && !was
}
