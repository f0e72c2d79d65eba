package lighting

import (
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/phong/pkg/math3d"
)

// classroom defaults: coral material, grey-white light.
func testMaterial() Material {
	return FlatMaterial(
		math3d.V3(1, 0.5, 0.31),
		math3d.V3(1, 0.5, 0.31),
		math3d.V3(0.5, 0.5, 0.5),
		32,
	)
}

func testLight(pos math3d.Vec3) PointLight {
	return PointLight{
		Position: pos,
		Ambient:  math3d.Splat3(0.2),
		Diffuse:  math3d.Splat3(0.5),
		Specular: math3d.Splat3(1),
	}
}

func TestDiffuseMaximalAlongNormal(t *testing.T) {
	m := testMaterial()
	l := testLight(math3d.V3(0, 5, 0))
	f := Fragment{Position: math3d.Zero3(), Normal: math3d.V3(0, 1, 0)}

	lightDir := l.Position.Sub(f.Position).Normalize()
	if d := f.Normal.Dot(lightDir); d != 1 {
		t.Fatalf("dot(normal, light_dir) = %v, want 1", d)
	}

	// View from the side so specular does not matter for this check.
	c := l.Contribution(f, math3d.V3(5, 0, 0), m)
	want := l.Diffuse.Mul(math3d.V3(1, 0.5, 0.31))
	if !c.Diffuse.ApproxEqual(want, 1e-12) {
		t.Errorf("diffuse = %v, want %v", c.Diffuse, want)
	}
}

func TestLightBehindSurfaceLeavesAmbientOnly(t *testing.T) {
	m := testMaterial()
	f := Fragment{Position: math3d.Zero3(), Normal: math3d.V3(0, 0, 1)}

	tests := []struct {
		name    string
		light   math3d.Vec3
		viewPos math3d.Vec3
	}{
		{"directly behind", math3d.V3(0, 0, -3), math3d.V3(0, 0, 3)},
		{"behind and off axis", math3d.V3(2, 1, -0.5), math3d.V3(-2, -1, 0.5)},
		// The mirrored direction of this light lines up with the viewer,
		// which would produce a highlight without the diffuse gate.
		{"mirror toward viewer", math3d.V3(1, 0, -1), math3d.V3(-1, 0, -1)},
		{"grazing", math3d.V3(3, 0, 0), math3d.V3(0, 0, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := testLight(tc.light)
			c := l.Contribution(f, tc.viewPos, m)

			if c.Diffuse != (math3d.Vec3{}) {
				t.Errorf("diffuse = %v, want exactly zero", c.Diffuse)
			}
			if c.Specular != (math3d.Vec3{}) {
				t.Errorf("specular = %v, want exactly zero", c.Specular)
			}
			wantAmbient := l.Ambient.Mul(math3d.V3(1, 0.5, 0.31))
			if got := Evaluate(f, tc.viewPos, m, []PointLight{l}); got != wantAmbient {
				t.Errorf("Evaluate = %v, want ambient %v", got, wantAmbient)
			}
		})
	}
}

func TestSpecularPeaksOnMirrorDirection(t *testing.T) {
	m := testMaterial()
	l := testLight(math3d.V3(-1, 1, 0))
	f := Fragment{Position: math3d.Zero3(), Normal: math3d.V3(0, 1, 0)}

	onMirror := l.Contribution(f, math3d.V3(1, 1, 0), m)
	want := l.Specular.Mul(math3d.Splat3(0.5))
	if !onMirror.Specular.ApproxEqual(want, 1e-12) {
		t.Errorf("specular on mirror direction = %v, want %v", onMirror.Specular, want)
	}

	offMirror := l.Contribution(f, math3d.V3(1, 3, 0), m)
	if offMirror.Specular.X >= onMirror.Specular.X {
		t.Errorf("specular off mirror %v should be below peak %v", offMirror.Specular, onMirror.Specular)
	}
}

func TestShininessNarrowsHighlight(t *testing.T) {
	l := testLight(math3d.V3(-1, 1, 0))
	f := Fragment{Position: math3d.Zero3(), Normal: math3d.V3(0, 1, 0)}
	view := math3d.V3(1, 1.4, 0)

	var prev float64 = math.Inf(1)
	for _, shininess := range []float64{1, 8, 32, 128} {
		m := testMaterial()
		m.Shininess = shininess
		spec := l.Contribution(f, view, m).Specular.X
		if spec >= prev {
			t.Errorf("shininess %v: specular %v did not shrink (previous %v)", shininess, spec, prev)
		}
		prev = spec
	}
}

func TestSymmetricLightsSum(t *testing.T) {
	m := testMaterial()
	pos := math3d.V3(1.2, 1, 2)
	a := testLight(pos)
	b := testLight(pos.Negate())

	f := Fragment{Position: math3d.V3(0.1, 0.2, 0.25), Normal: math3d.V3(0.3, 0.2, 1).Normalize()}
	viewPos := math3d.V3(0, 0, 3)

	ca := a.Contribution(f, viewPos, m)
	cb := b.Contribution(f, viewPos, m)

	single := Evaluate(f, viewPos, m, []PointLight{a})
	both := Evaluate(f, viewPos, m, []PointLight{a, b})

	if !ca.Ambient.Add(cb.Ambient).ApproxEqual(ca.Ambient.Scale(2), 1e-12) {
		t.Errorf("ambient did not double: %v + %v", ca.Ambient, cb.Ambient)
	}
	if ca.Diffuse.ApproxEqual(cb.Diffuse, 1e-6) {
		t.Errorf("diffuse terms should differ for symmetric positions: %v", ca.Diffuse)
	}
	if !both.ApproxEqual(ca.Sum().Add(cb.Sum()), 1e-12) {
		t.Errorf("Evaluate(both) = %v, want sum of contributions", both)
	}
	if !both.Sub(single).ApproxEqual(cb.Sum(), 1e-12) {
		t.Errorf("adding a light changed the first light's contribution")
	}
}

func TestEvaluateNoLights(t *testing.T) {
	f := Fragment{Normal: math3d.V3(0, 0, 1)}
	if got := Evaluate(f, math3d.V3(0, 0, 3), testMaterial(), nil); got != (math3d.Vec3{}) {
		t.Errorf("Evaluate with no lights = %v, want black", got)
	}
}

type solidTexture color.RGBA

func (s solidTexture) Sample(u, v float64) color.RGBA { return color.RGBA(s) }

type uvTexture struct{}

func (uvTexture) Sample(u, v float64) color.RGBA {
	return color.RGBA{R: uint8(u * 255), G: uint8(v * 255), A: 255}
}

func TestMappedMaterialSamplesAtUV(t *testing.T) {
	m := MappedMaterial(uvTexture{}, solidTexture{A: 255}, 16)
	if !m.Textured() {
		t.Fatal("MappedMaterial should report Textured")
	}

	l := PointLight{Position: math3d.V3(0, 0, 5), Diffuse: math3d.Splat3(1)}
	f := Fragment{Normal: math3d.V3(0, 0, 1), UV: math3d.V2(1, 0)}

	got := l.Contribution(f, math3d.V3(0, 5, 5), m)
	if !got.Diffuse.ApproxEqual(math3d.V3(1, 0, 0), 1e-9) {
		t.Errorf("diffuse from texture = %v, want red", got.Diffuse)
	}
	if got.Specular != (math3d.Vec3{}) {
		t.Errorf("black specular map should yield no specular, got %v", got.Specular)
	}
}

func TestMissingTextureSamplesBlack(t *testing.T) {
	m := MappedMaterial(nil, nil, 32)
	l := testLight(math3d.V3(0, 0, 5))
	f := Fragment{Normal: math3d.V3(0, 0, 1)}

	if got := Evaluate(f, math3d.V3(0, 0, 5), m, []PointLight{l}); got != (math3d.Vec3{}) {
		t.Errorf("Evaluate with unloaded maps = %v, want black", got)
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		in   math3d.Vec3
		want color.RGBA
	}{
		{math3d.V3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{math3d.V3(1, 0.5, 0.31), color.RGBA{255, 128, 79, 255}},
		{math3d.V3(1.7, -0.2, 1), color.RGBA{255, 0, 255, 255}},
	}
	for _, tc := range tests {
		if got := ToRGBA(tc.in); got != tc.want {
			t.Errorf("ToRGBA(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
