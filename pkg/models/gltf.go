package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/phong/pkg/math3d"
)

// GLTFLoader loads glTF/GLB files into a Mesh.
type GLTFLoader struct {
	CalculateNormals bool // Derive normals when the file has none
	SmoothNormals    bool // Average them per vertex instead of per face
	LoadTextures     bool // Decode base color textures into Material.BaseMap
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		LoadTextures:     true,
	}
}

// LoadGLB loads a .glb or .gltf file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh in the file into a
// single Mesh, together with the file's materials.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for i, m := range doc.Materials {
		mesh.Materials = append(mesh.Materials, l.material(doc, m, filepath.Dir(path), i))
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: no triangles", path)
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangle primitives of m. glTF front faces wind
// counter-clockwise, which is what both renderers expect.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3f(p)}
			if i < len(normals) {
				v.Normal = vec3f(normals[i])
			}
			if i < len(uvs) {
				// glTF puts v = 0 at the top of the image.
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{Material: material}
			for k := range 3 {
				idx := int(indices[i+k])
				if idx >= len(positions) {
					return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
				}
				f.V[k] = base + idx
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}
	return nil
}

func vec3f(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// material converts a glTF material, applying the format's defaults for
// absent factors.
func (l *GLTFLoader) material(doc *gltf.Document, m *gltf.Material, dir string, index int) Material {
	out := Material{
		Name:      m.Name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
	if out.Name == "" {
		out.Name = fmt.Sprintf("material%d", index)
	}

	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return out
	}
	if pbr.BaseColorFactor != nil {
		out.BaseColor = *pbr.BaseColorFactor
	}
	if pbr.MetallicFactor != nil {
		out.Metallic = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		out.Roughness = *pbr.RoughnessFactor
	}

	if l.LoadTextures && pbr.BaseColorTexture != nil {
		if img, err := textureImage(doc, pbr.BaseColorTexture.Index, dir); err == nil {
			out.BaseMap = img
			out.HasTexture = true
		}
	}
	return out
}

// textureImage decodes the image behind texture index ti, embedded in a
// buffer view or stored next to the file.
func textureImage(doc *gltf.Document, ti int, dir string) (image.Image, error) {
	if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return nil, fmt.Errorf("texture %d has no source", ti)
	}
	src := doc.Images[*doc.Textures[ti].Source]

	var data []byte
	switch {
	case src.BufferView != nil:
		bv := doc.BufferViews[*src.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, fmt.Errorf("image buffer not loaded")
		}
		data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case src.URI != "":
		var err error
		if data, err = os.ReadFile(filepath.Join(dir, src.URI)); err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	default:
		return nil, fmt.Errorf("image has neither buffer view nor uri")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
