package driver

import (
	"github.com/charmbracelet/log"

	"github.com/taigrr/phong/internal/config"
	"github.com/taigrr/phong/internal/scene"
	"github.com/taigrr/phong/pkg/lighting"
	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/pipeline"
	"github.com/taigrr/phong/pkg/render"
)

// RenderContext is the state shared between the driver and a backend. It
// is created once per run and passed by pointer; backends keep their own
// handles (GL objects, terminal, framebuffer) on their own struct.
type RenderContext struct {
	Scene  *scene.Scene
	Camera *render.Camera
	Spin   pipeline.SpinRates
	Zoom   *ZoomRig

	Title         string
	Width, Height int // Drawable size in pixels
	ShaderDir     string

	Frames    int // Frames presented so far
	Wireframe bool
	ShowHUD   bool

	Logger *log.Logger

	flat lighting.Material
}

// NewRenderContext builds the context for cfg around an already loaded
// scene.
func NewRenderContext(cfg config.Config, s *scene.Scene, logger *log.Logger) *RenderContext {
	cam := NewCamera(cfg.Camera, cfg.Width, cfg.Height)
	return &RenderContext{
		Scene:     s,
		Camera:    cam,
		Spin:      cfg.SpinRates(),
		Zoom:      NewZoomRig(cfg.FPS, cam.Distance()),
		Title:     cfg.Title,
		Width:     cfg.Width,
		Height:    cfg.Height,
		ShaderDir: cfg.ShaderDir,
		Logger:    logger,
		flat:      s.Material,
	}
}

// NewCamera returns a camera placed as c describes, with the aspect ratio
// of a width x height viewport.
func NewCamera(c config.Camera, width, height int) *render.Camera {
	cam := render.NewCamera()
	cam.SetPosition(c.Position.Vec3())
	cam.LookAt(c.Target.Vec3())
	cam.SetFOV(math3d.DegToRad(c.FOV))
	cam.SetClipPlanes(c.Near, c.Far)
	cam.SetViewport(width, height)
	return cam
}

// Resize records a new drawable size and updates the camera aspect.
// Non-positive sizes, as reported for a minimised window, are ignored.
func (rc *RenderContext) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	rc.Width, rc.Height = width, height
	rc.Camera.SetViewport(width, height)
}

// ToggleTexture flips the scene between its configured material and a
// textured one.
func (rc *RenderContext) ToggleTexture() {
	rc.Scene.ToggleTexture(rc.flat)
}

// Rasterize draws frame f of the scene with the software rasterizer. The
// rasterizer must project through rc.Camera or an equivalent camera.
func Rasterize(r *render.Rasterizer, fb *render.Framebuffer, rc *RenderContext, f Frame) {
	fb.Clear(rc.Scene.Background)
	r.ClearDepth()

	r.DrawMeshPhong(rc.Scene.Mesh, f.Transforms.Model, rc.Scene.Material, rc.Scene.Lights, f.ViewPos)
	if rc.Wireframe {
		r.DrawMeshWireframe(rc.Scene.Mesh, f.Transforms.Model, render.RGB(0, 255, 128))
	}
}
