package scene

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/archsim/internal/engine/model"
	"github.com/Faultbox/archsim/internal/engine/shader"
	"github.com/Faultbox/archsim/internal/engine/texture"
)

// Interleaved layout of model.Vertex as uploaded to the GPU.
const (
	vertexStride    = int32(unsafe.Sizeof(model.Vertex{}))
	offsetPosition  = unsafe.Offsetof(model.Vertex{}.Position)
	offsetNormal    = unsafe.Offsetof(model.Vertex{}.Normal)
	offsetTexCoord  = unsafe.Offsetof(model.Vertex{}.TexCoord)
	offsetTangent   = unsafe.Offsetof(model.Vertex{}.Tangent)
	offsetBitangent = unsafe.Offsetof(model.Vertex{}.Bitangent)
)

// vertexAttribs maps shader attribute locations to their component count
// and byte offset.
var vertexAttribs = [...]struct {
	location uint32
	size     int32
	offset   uintptr
}{
	{0, 3, offsetPosition},
	{1, 3, offsetNormal},
	{2, 2, offsetTexCoord},
	{3, 3, offsetTangent},
	{4, 3, offsetBitangent},
}

// ModelRenderer owns the GPU copy of one built mesh and draws it one
// partition at a time.
type ModelRenderer struct {
	vao uint32
	vbo uint32
	ebo uint32

	partitions []model.Partition
	materials  []texture.MaterialTextures
	untextured texture.MaterialTextures
	triangles  int
}

// NewModelRenderer uploads mesh. materials is indexed by partition
// MaterialID; fallback supplies the textures bound when texturing is off.
func NewModelRenderer(mesh *model.Mesh, materials []texture.MaterialTextures, fallback texture.Fallback) *ModelRenderer {
	mr := &ModelRenderer{
		partitions: drawablePartitions(mesh.Partitions),
		materials:  materials,
		untextured: texture.MaterialTextures{
			Diffuse:  fallback.White,
			Specular: fallback.White,
			Alpha:    fallback.White,
			Normal:   fallback.Flat,
		},
		triangles: mesh.TriangleCount(),
	}

	gl.GenVertexArrays(1, &mr.vao)
	gl.BindVertexArray(mr.vao)

	gl.GenBuffers(1, &mr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mr.vbo)
	if len(mesh.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(vertexStride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)
	}
	for _, a := range vertexAttribs {
		gl.VertexAttribPointerWithOffset(a.location, a.size, gl.FLOAT, false, vertexStride, a.offset)
		gl.EnableVertexAttribArray(a.location)
	}

	gl.GenBuffers(1, &mr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mr.ebo)
	if len(mesh.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	return mr
}

// drawablePartitions drops empty partitions.
func drawablePartitions(parts []model.Partition) []model.Partition {
	out := make([]model.Partition, 0, len(parts))
	for _, p := range parts {
		if p.Size > 0 {
			out = append(out, p)
		}
	}
	return out
}

// RenderGeometry draws every partition with whatever program is bound.
// It is what the shadow passes call.
func (mr *ModelRenderer) RenderGeometry() {
	gl.BindVertexArray(mr.vao)
	for _, p := range mr.partitions {
		drawPartition(p)
	}
	gl.BindVertexArray(0)
}

// Render draws the mesh with the main program, binding each partition's
// textures to the material units. With useTextures off every partition
// gets the white and flat-normal fallbacks.
func (mr *ModelRenderer) Render(program *shader.MainProgram, useTextures bool) {
	program.Use()
	gl.BindVertexArray(mr.vao)
	for _, p := range mr.partitions {
		mt := mr.untextured
		if useTextures && p.MaterialID >= 0 && p.MaterialID < len(mr.materials) {
			mt = mr.materials[p.MaterialID]
		}
		bindMaterial(mt)
		program.SetMaterialFlags(mt.HasOpacityMask, mt.HasNormalMap)
		drawPartition(p)
	}
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

func bindMaterial(mt texture.MaterialTextures) {
	for _, b := range [...]struct {
		unit uint32
		tex  uint32
	}{
		{shader.UnitDiffuse, mt.Diffuse},
		{shader.UnitSpecular, mt.Specular},
		{shader.UnitAlpha, mt.Alpha},
		{shader.UnitNormal, mt.Normal},
	} {
		gl.ActiveTexture(gl.TEXTURE0 + b.unit)
		gl.BindTexture(gl.TEXTURE_2D, b.tex)
	}
}

func drawPartition(p model.Partition) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(p.Size), gl.UNSIGNED_INT, uintptr(p.StartIndex*4))
}

// TriangleCount returns the number of triangles uploaded.
func (mr *ModelRenderer) TriangleCount() int { return mr.triangles }

// DrawCalls returns the number of draws issued per Render.
func (mr *ModelRenderer) DrawCalls() int { return len(mr.partitions) }

// Destroy releases the GPU buffers. Textures belong to the texture loader.
func (mr *ModelRenderer) Destroy() {
	if mr.vao != 0 {
		gl.DeleteVertexArrays(1, &mr.vao)
		mr.vao = 0
	}
	if mr.vbo != 0 {
		gl.DeleteBuffers(1, &mr.vbo)
		mr.vbo = 0
	}
	if mr.ebo != 0 {
		gl.DeleteBuffers(1, &mr.ebo)
		mr.ebo = 0
	}
}
