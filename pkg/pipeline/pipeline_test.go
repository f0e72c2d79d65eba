package pipeline

import (
	"math"
	"testing"

	"github.com/taigrr/phong/pkg/math3d"
)

// angleDiff returns the shortest distance between two angles in degrees.
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

func TestSpinAnglesAtSampledTimes(t *testing.T) {
	tests := []struct {
		t          float64
		yaw, pitch float64
	}{
		{0, 0, 0},
		{1, 45, 81},
		{2, 90, 162},
		{5, 225, 45},  // 405 mod 360
		{8, 0, 288},   // 360 and 648
		{10, 90, 90},  // 450 and 810
	}

	for _, tc := range tests {
		model := SpinModel(tc.t, DefaultSpin)

		yaw, pitch := DecomposeSpin(model)
		if angleDiff(yaw, tc.yaw) > 1e-9 {
			t.Errorf("t=%v: decomposed yaw = %v, want %v", tc.t, yaw, tc.yaw)
		}
		if angleDiff(pitch, tc.pitch) > 1e-9 {
			t.Errorf("t=%v: decomposed pitch = %v, want %v", tc.t, pitch, tc.pitch)
		}

		sy, sp := SpinAngles(tc.t, DefaultSpin)
		if angleDiff(sy, tc.yaw) > 1e-9 || angleDiff(sp, tc.pitch) > 1e-9 {
			t.Errorf("t=%v: SpinAngles = (%v, %v), want (%v, %v)", tc.t, sy, sp, tc.yaw, tc.pitch)
		}
	}
}

func TestSpinModelOrder(t *testing.T) {
	// RotateY(yaw) * RotateX(pitch): the X rotation applies first to
	// object-space points.
	model := SpinModel(1, SpinRates{Yaw: 90, Pitch: 90})

	// +Y rotated 90 deg about X becomes +Z, then 90 deg about Y becomes +X.
	got := model.Mat3().MulVec3(math3d.V3(0, 1, 0))
	if !got.ApproxEqual(math3d.V3(1, 0, 0), 1e-12) {
		t.Errorf("spin applied to +Y = %v, want +X", got)
	}
}

func TestNormalMatrixIsRotationBlockForSpin(t *testing.T) {
	for _, tm := range []float64{0, 0.37, 1, 2, 3.9} {
		tf := NewTransforms()
		tf.Model = SpinModel(tm, DefaultSpin)

		got := tf.NormalMatrix()
		if !got.ApproxEqual(tf.Model.Mat3(), 1e-9) {
			t.Errorf("t=%v: normal matrix %v differs from rotation block %v", tm, got, tf.Model.Mat3())
		}
	}
}

func TestStageRun(t *testing.T) {
	tf := Transforms{
		Model:      math3d.Translate(math3d.V3(1, 0, 0)).Mul(math3d.Scale(math3d.V3(2, 1, 1))),
		View:       math3d.LookAt(math3d.V3(0, 0, 3), math3d.Zero3(), math3d.Up()),
		Projection: math3d.Perspective(math3d.DegToRad(50), 4.0/3.0, 0.1, 1000),
	}
	stage := NewStage(tf)

	v := Vertex{
		Position: math3d.V3(0.25, 0.25, 0.25),
		Normal:   math3d.V3(1, 1, 0).Normalize(),
		UV:       math3d.V2(0.5, 1),
	}
	out := stage.Run(v)

	wantWorld := math3d.V3(1.5, 0.25, 0.25)
	if !out.World.ApproxEqual(wantWorld, 1e-12) {
		t.Errorf("world = %v, want %v", out.World, wantWorld)
	}

	wantClip := tf.Projection.Mul(tf.View).Mul(tf.Model).MulVec4(math3d.V4FromV3(v.Position, 1))
	if math.Abs(out.Clip.X-wantClip.X) > 1e-12 || math.Abs(out.Clip.W-wantClip.W) > 1e-12 {
		t.Errorf("clip = %v, want %v", out.Clip, wantClip)
	}

	if l := out.Normal.Len(); math.Abs(l-1) > 1e-12 {
		t.Errorf("normal length = %v, want 1", l)
	}
	// Stretching X by 2 tilts the 45 degree normal toward Y.
	wantNormal := math3d.V3(0.5, 1, 0).Normalize()
	if !out.Normal.ApproxEqual(wantNormal, 1e-12) {
		t.Errorf("normal = %v, want %v", out.Normal, wantNormal)
	}

	if out.UV != v.UV {
		t.Errorf("uv = %v, want %v", out.UV, v.UV)
	}
	if stage.NormalMatrix() != tf.NormalMatrix() {
		t.Error("stage normal matrix differs from transforms")
	}
}
