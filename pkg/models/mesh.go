// Package models holds triangle meshes: the built-in cube and meshes loaded
// from glTF files, with the vertex layout both renderers consume.
package models

import (
	"image"

	"github.com/taigrr/phong/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Faces wind counter-clockwise when seen
// from outside.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle with a material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials, -1 for none
}

// Material is a glTF metallic-roughness material.
type Material struct {
	Name       string
	BaseColor  [4]float64 // RGBA in 0-1 range
	Metallic   float64
	Roughness  float64
	BaseMap    image.Image // Optional base color texture
	HasTexture bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateNormals assigns each face's normal to its vertices (flat
// shading). Vertices shared between faces keep the last face's normal.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// CalculateSmoothNormals averages area-weighted face normals per vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// faceNormal is the unnormalized outward normal of a counter-clockwise face.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// Transform applies mat to every vertex. Normals go through the normal
// matrix so non-uniform scales keep them perpendicular.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nm := mat.NormalMatrix()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = nm.MulVec3(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Normalize recenters the mesh on the origin and scales it uniformly so
// its largest extent equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	ext := m.Size()
	largest := max(ext.X, ext.Y, ext.Z)
	if largest == 0 {
		return
	}
	s := size / largest
	m.Transform(math3d.Scale(math3d.Splat3(s)).Mul(math3d.Translate(m.Center().Negate())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetVertex returns the attributes of vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices of face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index of face i, -1 for none.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns material i, or nil when out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// FloatsPerVertex is the interleaved layout: position (3), normal (3),
// uv (2).
const FloatsPerVertex = 8

// Interleaved expands the faces into a non-indexed vertex array in the
// layout the GL vertex buffer uses.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Faces)*3*FloatsPerVertex)
	for _, f := range m.Faces {
		for _, vi := range f.V {
			v := m.Vertices[vi]
			out = append(out,
				float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z),
				float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z),
				float32(v.UV.X), float32(v.UV.Y),
			)
		}
	}
	return out
}
