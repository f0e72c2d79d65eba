package glview

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/phong/pkg/models"
	"github.com/taigrr/phong/pkg/render"
)

// Vertex attribute locations, matching the layout qualifiers of phong.vert.
const (
	attribPosition = 0
	attribNormal   = 1
	attribUV       = 2
)

// meshBuffer is a non-indexed interleaved vertex buffer and its VAO.
type meshBuffer struct {
	vao, vbo uint32
	count    int32
}

// uploadMesh copies vertices laid out as models.Mesh.Interleaved into a
// static buffer.
func uploadMesh(vertices []float32) *meshBuffer {
	const floatSize = 4
	stride := int32(models.FloatsPerVertex * floatSize)

	m := &meshBuffer{count: int32(len(vertices) / models.FloatsPerVertex)}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 3*floatSize)
	gl.EnableVertexAttribArray(attribUV)
	gl.VertexAttribPointerWithOffset(attribUV, 2, gl.FLOAT, false, stride, 6*floatSize)

	gl.BindVertexArray(0)
	return m
}

func (m *meshBuffer) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
}

func (m *meshBuffer) delete() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}

// uploadTexture creates a 2D texture from tex. A map that was never
// loaded yields handle 0, which samples black.
func uploadTexture(tex *render.Texture, kind string, logger *log.Logger) uint32 {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		logger.Warn("no texture data; leaving unit unbound", "map", kind)
		return 0
	}

	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapParam(tex.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapParam(tex.WrapV))
	if tex.FilterMode == render.FilterNearest {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}

	pixels := tex.BottomUp()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	logger.Debug("uploaded texture", "map", kind, "name", tex.Name, "width", tex.Width, "height", tex.Height, "handle", handle)
	return handle
}

func wrapParam(m render.WrapMode) int32 {
	if m == render.WrapClamp {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}
