package models

import "github.com/taigrr/phong/pkg/math3d"

// cubeFace describes one side: its outward normal and the in-plane axes
// pointing right and up when the side is seen from outside. right x up
// equals the normal, so corners listed BL, BR, TR, TL wind
// counter-clockwise.
type cubeFace struct {
	normal, right, up math3d.Vec3
}

var cubeFaces = [6]cubeFace{
	{math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0)}, // back
	{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},   // front
	{math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0)},  // left
	{math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0)},  // right
	{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)},  // bottom
	{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},  // top
}

var cornerUVs = [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// Cube returns an axis-aligned cube of edge length size centred on the
// origin: 6 sides of 2 triangles, 36 vertices with unshared per-side
// normals, and each side mapping the full [0,1] texture square.
func Cube(size float64) *Mesh {
	h := size / 2
	mesh := NewMesh("cube")
	mesh.Materials = []Material{{
		Name:      "coral",
		BaseColor: [4]float64{1, 0.5, 0.31, 1},
		Roughness: 0.5,
	}}

	signs := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range cubeFaces {
		var corners [4]MeshVertex
		for i, s := range signs {
			corners[i] = MeshVertex{
				Position: f.normal.Add(f.right.Scale(s[0])).Add(f.up.Scale(s[1])).Scale(h),
				Normal:   f.normal,
				UV:       cornerUVs[i],
			}
		}
		for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
			base := len(mesh.Vertices)
			for _, c := range tri {
				mesh.Vertices = append(mesh.Vertices, corners[c])
			}
			mesh.Faces = append(mesh.Faces, Face{V: [3]int{base, base + 1, base + 2}})
		}
	}

	mesh.CalculateBounds()
	return mesh
}
