package pipeline

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// SpinRates are the angular speeds of the cube in degrees per second.
type SpinRates struct {
	Yaw   float64 // About Y
	Pitch float64 // About X
}

// DefaultSpin is 45 deg/s about Y and 81 deg/s about X.
var DefaultSpin = SpinRates{Yaw: 45, Pitch: 81}

// SpinAngles returns the yaw and pitch in degrees at time t, wrapped to
// [0, 360).
func SpinAngles(t float64, r SpinRates) (yaw, pitch float64) {
	return wrapDegrees(r.Yaw * t), wrapDegrees(r.Pitch * t)
}

// SpinModel returns the model matrix at time t (seconds): a rotation about
// Y followed, in object space, by a rotation about X.
func SpinModel(t float64, r SpinRates) math3d.Mat4 {
	yaw, pitch := SpinAngles(t, r)
	return math3d.RotateY(math3d.DegToRad(yaw)).Mul(math3d.RotateX(math3d.DegToRad(pitch)))
}

// DecomposeSpin recovers yaw and pitch (degrees, [0, 360)) from a matrix
// of the form RotateY(yaw) * RotateX(pitch).
func DecomposeSpin(m math3d.Mat4) (yaw, pitch float64) {
	yaw = math.Atan2(-m.Get(2, 0), m.Get(0, 0))
	pitch = math.Atan2(-m.Get(1, 2), m.Get(1, 1))
	return wrapDegrees(math3d.RadToDeg(yaw)), wrapDegrees(math3d.RadToDeg(pitch))
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
