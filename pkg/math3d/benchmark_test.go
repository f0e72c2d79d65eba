package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkNormalMatrix(b *testing.B) {
	m := RotateY(0.5).Mul(RotateX(0.9)).Mul(Scale(V3(2, 1, 1)))

	for b.Loop() {
		_ = m.NormalMatrix()
	}
}

func BenchmarkMat3MulVec3(b *testing.B) {
	m := RotateY(0.5).Mat3()
	v := V3(0, 0, 1)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Reflect(b *testing.B) {
	v := V3(1, -1, 0).Normalize()
	n := V3(0, 1, 0)

	for b.Loop() {
		_ = v.Reflect(n)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view := LookAt(V3(0, 0, 3), Zero3(), Up())
	proj := Perspective(DegToRad(50), 1.333, 0.1, 1000.0)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}
