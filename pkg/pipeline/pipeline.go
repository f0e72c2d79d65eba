// Package pipeline is the vertex half of the renderer: it carries
// object-space vertices into clip space and world space and derives the
// normal-transform matrix the lighting pass needs.
package pipeline

import (
	"github.com/taigrr/phong/pkg/math3d"
)

// Transforms are the per-draw matrices. The normal matrix is derived from
// Model, so callers only ever set the three 4x4 matrices.
type Transforms struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
}

// NewTransforms returns transforms with every matrix set to identity.
func NewTransforms() Transforms {
	return Transforms{
		Model:      math3d.Identity(),
		View:       math3d.Identity(),
		Projection: math3d.Identity(),
	}
}

// MVP returns projection * view * model.
func (t Transforms) MVP() math3d.Mat4 {
	return t.Projection.Mul(t.View).Mul(t.Model)
}

// NormalMatrix returns transpose(inverse(top-left 3x3 of Model)).
// A singular model matrix is a caller error; the result is then identity.
func (t Transforms) NormalMatrix() math3d.Mat3 {
	return t.Model.NormalMatrix()
}

// Vertex is an object-space vertex.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Output is what the vertex stage hands to rasterization.
type Output struct {
	Clip   math3d.Vec4 // Clip-space position
	World  math3d.Vec3 // World-space position
	Normal math3d.Vec3 // World-space unit normal
	UV     math3d.Vec2
}

// Stage runs the vertex transform for one draw. Build it once per frame so
// the MVP product and the normal matrix are computed a single time.
type Stage struct {
	mvp    math3d.Mat4
	model  math3d.Mat4
	normal math3d.Mat3
}

// NewStage precomputes the matrices for t.
func NewStage(t Transforms) Stage {
	return Stage{
		mvp:    t.MVP(),
		model:  t.Model,
		normal: t.NormalMatrix(),
	}
}

// NormalMatrix returns the normal matrix the stage was built with.
func (s Stage) NormalMatrix() math3d.Mat3 {
	return s.normal
}

// Run transforms a single vertex.
func (s Stage) Run(v Vertex) Output {
	p := math3d.V4FromV3(v.Position, 1)
	return Output{
		Clip:   s.mvp.MulVec4(p),
		World:  s.model.MulVec4(p).Vec3(),
		Normal: s.normal.MulVec3(v.Normal).Normalize(),
		UV:     v.UV,
	}
}
