package models

import (
	"math"

	"github.com/taigrr/phong/pkg/lighting"
	"github.com/taigrr/phong/pkg/math3d"
)

// Shininess bounds used when deriving an exponent from roughness.
const (
	MinShininess = 1
	MaxShininess = 256
)

// PhongFromPBR approximates a metallic-roughness material with flat Phong
// colors. Metals tint their highlight with the base color and lose their
// diffuse term; dielectrics keep a 4% grey highlight. The exponent follows
// the Blinn-Phong equivalence 2/alpha^2 - 2 with alpha = roughness^2.
func PhongFromPBR(m Material) lighting.Material {
	base := math3d.V3(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2])
	metal := clamp(m.Metallic, 0, 1)
	rough := clamp(m.Roughness, 0, 1)

	diffuse := base.Scale(1 - metal)
	specular := math3d.Splat3(0.04).Lerp(base, metal).Scale(1 - 0.5*rough)

	alpha := rough * rough
	shininess := float64(MaxShininess)
	if alpha > 0 {
		shininess = clamp(2/(alpha*alpha)-2, MinShininess, MaxShininess)
	}

	// The ambient term reuses the diffuse color, or the base color for
	// metals so they do not go black outside their highlights.
	ambient := diffuse
	if metal > 0.5 {
		ambient = base
	}
	return lighting.FlatMaterial(ambient, diffuse, specular, shininess)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
