// Package lighting implements the Phong illumination model: a material lit
// by an ordered set of point lights, evaluated per fragment.
package lighting

import (
	"image/color"

	"github.com/taigrr/phong/pkg/math3d"
)

// ColorSource yields a reflectance color for a texture coordinate.
// Flat colors ignore the coordinate; texture maps sample it.
type ColorSource interface {
	At(uv math3d.Vec2) math3d.Vec3
}

// Flat is a constant reflectance.
type Flat math3d.Vec3

// At returns the flat color.
func (f Flat) At(math3d.Vec2) math3d.Vec3 {
	return math3d.Vec3(f)
}

// Sampler is anything that can be sampled with normalized texture
// coordinates. render.Texture satisfies it.
type Sampler interface {
	Sample(u, v float64) color.RGBA
}

// TextureMap samples a texture as a reflectance. A nil sampler samples
// black, the same result as an unbound GL texture unit.
type TextureMap struct {
	Texture Sampler
}

// At samples the texture at uv and converts it to a [0,1] color.
func (t TextureMap) At(uv math3d.Vec2) math3d.Vec3 {
	if t.Texture == nil {
		return math3d.Vec3{}
	}
	return FromRGBA(t.Texture.Sample(uv.X, uv.Y))
}

// Material describes how a surface reflects light.
type Material struct {
	Ambient   ColorSource
	Diffuse   ColorSource
	Specular  ColorSource
	Shininess float64 // Specular exponent, > 0
}

// FlatMaterial builds a material from plain colors.
func FlatMaterial(ambient, diffuse, specular math3d.Vec3, shininess float64) Material {
	return Material{
		Ambient:   Flat(ambient),
		Diffuse:   Flat(diffuse),
		Specular:  Flat(specular),
		Shininess: shininess,
	}
}

// MappedMaterial builds a material whose diffuse and specular terms come
// from texture maps. The ambient term reuses the diffuse map.
func MappedMaterial(diffuse, specular Sampler, shininess float64) Material {
	return Material{
		Ambient:   TextureMap{diffuse},
		Diffuse:   TextureMap{diffuse},
		Specular:  TextureMap{specular},
		Shininess: shininess,
	}
}

// Textured reports whether the diffuse reflectance is sampled from a map.
func (m Material) Textured() bool {
	_, ok := m.Diffuse.(TextureMap)
	return ok
}

func sample(src ColorSource, uv math3d.Vec2) math3d.Vec3 {
	if src == nil {
		return math3d.Vec3{}
	}
	return src.At(uv)
}

// FromRGBA converts an 8-bit color to [0,1] components, ignoring alpha.
func FromRGBA(c color.RGBA) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// ToRGBA converts a radiance to an opaque 8-bit color, saturating each
// channel the way a UNORM framebuffer does.
func ToRGBA(c math3d.Vec3) color.RGBA {
	c = c.Clamp01()
	return color.RGBA{
		R: uint8(c.X*255 + 0.5),
		G: uint8(c.Y*255 + 0.5),
		B: uint8(c.Z*255 + 0.5),
		A: 255,
	}
}
