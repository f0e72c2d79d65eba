package driver

import (
	"github.com/charmbracelet/harmonica"
)

// Camera distance limits and the step of one zoom key press.
const (
	MinDistance = 1.0
	MaxDistance = 20.0
	ZoomStep    = 0.5
)

// ZoomRig eases the camera distance toward a target with a critically
// damped spring, so a zoom key press glides instead of jumping.
type ZoomRig struct {
	Distance float64
	Target   float64

	velocity float64
	spring   harmonica.Spring
}

// NewZoomRig returns a rig at rest at distance, stepped fps times per
// second. A non-positive fps steps at 60.
func NewZoomRig(fps int, distance float64) *ZoomRig {
	if fps <= 0 {
		fps = 60
	}
	d := clampDistance(distance)
	return &ZoomRig{
		Distance: d,
		Target:   d,
		// Frequency 4.0, damping 1.0: settles in well under a second
		// without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Nudge moves the target by delta; negative values zoom in.
func (z *ZoomRig) Nudge(delta float64) {
	z.Target = clampDistance(z.Target + delta)
}

// Update advances the spring one step and returns the new distance.
func (z *ZoomRig) Update() float64 {
	z.Distance, z.velocity = z.spring.Update(z.Distance, z.velocity, z.Target)
	return z.Distance
}

// Settled reports whether the rig has come to rest on its target.
func (z *ZoomRig) Settled() bool {
	const eps = 1e-4
	d := z.Distance - z.Target
	return d < eps && d > -eps && z.velocity < eps && z.velocity > -eps
}

func clampDistance(d float64) float64 {
	return min(max(d, MinDistance), MaxDistance)
}
