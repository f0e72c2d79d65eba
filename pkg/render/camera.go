package render

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// Camera is a perspective camera looking from Position toward Target.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	// Cached matrices
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera returns a camera at (0,0,3) looking at the origin with a 50
// degree vertical field of view and clip planes at 0.1 and 1000.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 3),
		Target:      math3d.Zero3(),
		Up:          math3d.Up(),
		FOV:         math3d.DegToRad(50),
		AspectRatio: 4.0 / 3.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

// SetPosition moves the camera without changing where it looks.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
	c.vpDirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
	c.vpDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
	c.vpDirty = true
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
	c.vpDirty = true
}

// SetViewport sets the aspect ratio from a pixel size. A zero height (a
// minimised window) leaves the aspect unchanged.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspectRatio(float64(width) / float64(height))
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
	c.vpDirty = true
}

// Distance returns how far the camera is from its target.
func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}

// SetDistance moves the camera along its current line of sight so that it
// sits d units from the target.
func (c *Camera) SetDistance(d float64) {
	dir := c.Position.Sub(c.Target)
	if dir.Len() == 0 {
		dir = math3d.V3(0, 0, 1)
	}
	c.SetPosition(c.Target.Add(dir.Normalize().Scale(d)))
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.vpDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// WorldToScreen projects a world point to pixel coordinates with y growing
// downward. visible is false for points behind the camera or outside the
// view volume.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if math.Abs(ndc.X) > 1 || math.Abs(ndc.Y) > 1 || math.Abs(ndc.Z) > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight)
	return x, y, ndc.Z, true
}
