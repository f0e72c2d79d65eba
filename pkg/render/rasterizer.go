package render

import (
	"math"

	"github.com/taigrr/phong/pkg/lighting"
	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/pipeline"
)

// MeshRenderer is the read-only view of a mesh the rasterizer needs. It is
// declared here so render does not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetFace(i int) [3]int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// Stats counts what the last frame did.
type Stats struct {
	TrianglesDrawn  int
	TrianglesCulled int // Back-facing or behind the camera
	Fragments       int // Pixels that passed the depth test
}

// Rasterizer draws meshes into a framebuffer with a depth buffer. Front
// faces wind counter-clockwise, as in OpenGL.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // Row-major, NDC depth

	DisableBackfaceCulling bool
	Stats                  Stats
}

// NewRasterizer creates a rasterizer drawing through camera into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// Camera returns the camera the rasterizer projects through.
func (r *Rasterizer) Camera() *Camera {
	return r.camera
}

// ClearDepth resets the depth buffer and the frame statistics. Call it
// once per frame, before drawing.
func (r *Rasterizer) ClearDepth() {
	for i := range r.zbuffer {
		r.zbuffer[i] = math.MaxFloat64
	}
	r.Stats = Stats{}
}

func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// Transforms returns the pipeline matrices for drawing with model.
func (r *Rasterizer) Transforms(model math3d.Mat4) pipeline.Transforms {
	return pipeline.Transforms{
		Model:      model,
		View:       r.camera.ViewMatrix(),
		Projection: r.camera.ProjectionMatrix(),
	}
}

// screenVertex is a vertex after the vertex stage and viewport mapping.
type screenVertex struct {
	X, Y, Z float64 // Pixels, y down; NDC depth
	InvW    float64
	World   math3d.Vec3
	Normal  math3d.Vec3
	UV      math3d.Vec2
}

func (r *Rasterizer) toScreen(out pipeline.Output) screenVertex {
	invW := 1 / out.Clip.W
	return screenVertex{
		X:      (out.Clip.X*invW + 1) * 0.5 * float64(r.Width()),
		Y:      (1 - out.Clip.Y*invW) * 0.5 * float64(r.Height()),
		Z:      out.Clip.Z * invW,
		InvW:   invW,
		World:  out.World,
		Normal: out.Normal,
		UV:     out.UV,
	}
}

// DrawMeshPhong draws mesh transformed by model, shading every covered
// pixel with the Phong model as seen from viewPos, normally the camera
// position.
func (r *Rasterizer) DrawMeshPhong(mesh MeshRenderer, model math3d.Mat4, m lighting.Material, lights []lighting.PointLight, viewPos math3d.Vec3) {
	stage := pipeline.NewStage(r.Transforms(model))

	outs := make([]pipeline.Output, mesh.VertexCount())
	for i := range outs {
		pos, normal, uv := mesh.GetVertex(i)
		outs[i] = stage.Run(pipeline.Vertex{Position: pos, Normal: normal, UV: uv})
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		a, b, c := outs[face[0]], outs[face[1]], outs[face[2]]

		// Without near-plane clipping a vertex at or behind the eye
		// cannot be projected.
		if a.Clip.W <= 0 || b.Clip.W <= 0 || c.Clip.W <= 0 {
			r.Stats.TrianglesCulled++
			continue
		}
		r.drawTrianglePhong([3]screenVertex{r.toScreen(a), r.toScreen(b), r.toScreen(c)}, viewPos, m, lights)
	}
}

// drawTrianglePhong rasterizes one triangle with edge functions and shades
// each fragment from perspective-correct world position, normal and uv.
func (r *Rasterizer) drawTrianglePhong(sv [3]screenVertex, viewPos math3d.Vec3, m lighting.Material, lights []lighting.PointLight) {
	// Twice the signed area. Screen y points down, so counter-clockwise
	// triangles in NDC come out negative here.
	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 == 0 || (area2 > 0 && !r.DisableBackfaceCulling) {
		r.Stats.TrianglesCulled++
		return
	}
	invArea := 1.0 / area2

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}
	r.Stats.TrianglesDrawn++

	// Edge 0: v1 -> v2, edge 1: v2 -> v0, edge 2: v0 -> v1.
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	width := r.Width()
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			// Dividing by the signed area makes the test winding-agnostic.
			bc0, bc1, bc2 := w0*invArea, w1*invArea, w2*invArea
			if bc0 >= 0 && bc1 >= 0 && bc2 >= 0 {
				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z
				if z < r.getDepth(x, y) {
					r.setDepth(x, y, z)
					f := interpolateFragment(sv, bc0, bc1, bc2)
					r.fb.Pixels[rowOffset+x] = lighting.ToRGBA(lighting.Evaluate(f, viewPos, m, lights))
					r.Stats.Fragments++
				}
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// interpolateFragment blends the vertex attributes with screen-space
// barycentrics corrected by 1/w. The normal is re-normalized because
// blending unit vectors shortens them.
func interpolateFragment(sv [3]screenVertex, bc0, bc1, bc2 float64) lighting.Fragment {
	p0 := bc0 * sv[0].InvW
	p1 := bc1 * sv[1].InvW
	p2 := bc2 * sv[2].InvW
	norm := 1 / (p0 + p1 + p2)
	p0, p1, p2 = p0*norm, p1*norm, p2*norm

	blend3 := func(a, b, c math3d.Vec3) math3d.Vec3 {
		return a.Scale(p0).Add(b.Scale(p1)).Add(c.Scale(p2))
	}
	return lighting.Fragment{
		Position: blend3(sv[0].World, sv[1].World, sv[2].World),
		Normal:   blend3(sv[0].Normal, sv[1].Normal, sv[2].Normal).Normalize(),
		UV:       sv[0].UV.Scale(p0).Add(sv[1].UV.Scale(p1)).Add(sv[2].UV.Scale(p2)),
	}
}

// DrawMeshWireframe draws every triangle edge of mesh in color, ignoring
// depth and facing.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, model math3d.Mat4, color Color) {
	mvp := r.camera.ViewProjectionMatrix().Mul(model)

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var clip [3]math3d.Vec4
		for k := range 3 {
			p, _, _ := mesh.GetVertex(face[k])
			clip[k] = mvp.MulVec4(math3d.V4FromV3(p, 1))
		}
		r.drawClipLine(clip[0], clip[1], color)
		r.drawClipLine(clip[1], clip[2], color)
		r.drawClipLine(clip[2], clip[0], color)
	}
}

func (r *Rasterizer) drawClipLine(a, b math3d.Vec4, color Color) {
	if a.W <= 0 || b.W <= 0 {
		return
	}
	x0 := int((a.X/a.W + 1) * 0.5 * float64(r.Width()))
	y0 := int((1 - a.Y/a.W) * 0.5 * float64(r.Height()))
	x1 := int((b.X/b.W + 1) * 0.5 * float64(r.Width()))
	y1 := int((1 - b.Y/b.W) * 0.5 * float64(r.Height()))
	r.fb.DrawLine(x0, y0, x1, y1, color)
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C of the
// directed edge (x0,y0) -> (x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
