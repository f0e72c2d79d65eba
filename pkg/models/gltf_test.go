package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/phong/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	if _, err := LoadGLB("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestGLTFLoaderDefaults(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
	if !loader.LoadTextures {
		t.Error("LoadTextures should default to true")
	}
}

// writeQuad saves a single quad facing +Z with a red material.
func writeQuad(t *testing.T, withNormals bool) string {
	t.Helper()

	doc := gltf.NewDocument()
	positions := [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	attrs := map[string]int{
		gltf.POSITION:   modeler.WritePosition(doc, positions),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}),
	}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}

	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(0.5),
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})),
			Attributes: attrs,
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestLoadRoundTrip(t *testing.T) {
	mesh, err := LoadGLB(writeQuad(t, true))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles; want 4, 2", mesh.VertexCount(), mesh.TriangleCount())
	}
	if mesh.Name != "quad.glb" {
		t.Errorf("name = %q", mesh.Name)
	}

	// Winding is kept: the first triangle's geometric normal faces +Z.
	if n := mesh.faceNormal(mesh.Faces[0]).Normalize(); !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
		t.Errorf("face normal = %v, want +Z", n)
	}

	// v is flipped into bottom-left origin.
	_, _, uv := mesh.GetVertex(0)
	if uv != math3d.V2(0, 0) {
		t.Errorf("uv of vertex 0 = %v, want (0,0)", uv)
	}

	if mesh.MaterialCount() != 1 {
		t.Fatalf("materials = %d, want 1", mesh.MaterialCount())
	}
	mat := mesh.GetMaterial(mesh.GetFaceMaterial(0))
	if mat == nil || mat.Name != "red" {
		t.Fatalf("face material = %+v, want red", mat)
	}
	if mat.BaseColor != [4]float64{1, 0, 0, 1} || mat.Metallic != 0 || mat.Roughness != 0.5 {
		t.Errorf("material factors = %+v", mat)
	}
	if mat.HasTexture {
		t.Error("material without texture reports HasTexture")
	}

	if !mesh.BoundsMin.ApproxEqual(math3d.V3(-1, -1, 0), 1e-6) || !mesh.BoundsMax.ApproxEqual(math3d.V3(1, 1, 0), 1e-6) {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestLoadComputesMissingNormals(t *testing.T) {
	tests := []struct {
		name   string
		smooth bool
	}{
		{"smooth", true},
		{"flat", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loader := NewGLTFLoader()
			loader.SmoothNormals = tc.smooth

			mesh, err := loader.Load(writeQuad(t, false))
			if err != nil {
				t.Fatal(err)
			}
			for i, v := range mesh.Vertices {
				if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
					t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
				}
			}
		})
	}
}

func TestMaterialDefaultsFollowGLTF(t *testing.T) {
	l := NewGLTFLoader()
	got := l.material(gltf.NewDocument(), &gltf.Material{}, "", 3)

	if got.Name != "material3" {
		t.Errorf("name = %q", got.Name)
	}
	if got.BaseColor != [4]float64{1, 1, 1, 1} || got.Metallic != 1 || got.Roughness != 1 {
		t.Errorf("defaults = %+v", got)
	}
}
