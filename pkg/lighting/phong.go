package lighting

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// PointLight is an omnidirectional light with separate intensities for the
// three Phong terms. There is no distance attenuation.
type PointLight struct {
	Position math3d.Vec3
	Ambient  math3d.Vec3
	Diffuse  math3d.Vec3
	Specular math3d.Vec3
}

// Fragment is the interpolated surface state handed to the evaluator.
// Normal must be unit length.
type Fragment struct {
	Position math3d.Vec3 // World space
	Normal   math3d.Vec3 // World space, unit length
	UV       math3d.Vec2
}

// Contribution holds the three terms one light adds to a fragment.
type Contribution struct {
	Ambient  math3d.Vec3
	Diffuse  math3d.Vec3
	Specular math3d.Vec3
}

// Sum returns ambient + diffuse + specular.
func (c Contribution) Sum() math3d.Vec3 {
	return c.Ambient.Add(c.Diffuse).Add(c.Specular)
}

// Contribution evaluates a single light at a fragment seen from viewPos.
// When the surface faces away from the light both the diffuse and the
// specular term are exactly zero.
func (l PointLight) Contribution(f Fragment, viewPos math3d.Vec3, m Material) Contribution {
	c := Contribution{
		Ambient: l.Ambient.Mul(sample(m.Ambient, f.UV)),
	}

	lightDir := l.Position.Sub(f.Position).Normalize()
	diff := math.Max(f.Normal.Dot(lightDir), 0)
	if diff == 0 {
		return c
	}
	c.Diffuse = l.Diffuse.Scale(diff).Mul(sample(m.Diffuse, f.UV))

	viewDir := viewPos.Sub(f.Position).Normalize()
	reflectDir := lightDir.Negate().Reflect(f.Normal)
	spec := math.Pow(math.Max(viewDir.Dot(reflectDir), 0), m.Shininess)
	c.Specular = l.Specular.Scale(spec).Mul(sample(m.Specular, f.UV))

	return c
}

// Evaluate returns the radiance leaving a fragment toward viewPos: the sum of
// every light's contribution. The result is not clamped.
func Evaluate(f Fragment, viewPos math3d.Vec3, m Material, lights []PointLight) math3d.Vec3 {
	var out math3d.Vec3
	for _, l := range lights {
		out = out.Add(l.Contribution(f, viewPos, m).Sum())
	}
	return out
}
