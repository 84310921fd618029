package formats

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	tri := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})

	doc.Images = []*gltf.Image{{URI: "brick.png"}}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Materials = []*gltf.Material{{
		Name: "brick",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "wall",
		Primitives: []*gltf.Primitive{
			{
				Indices:    gltf.Index(idx),
				Material:   gltf.Index(0),
				Attributes: map[string]int{gltf.POSITION: pos, gltf.NORMAL: nrm, gltf.TEXCOORD_0: uv},
			},
			{
				Attributes: map[string]int{gltf.POSITION: tri},
			},
		},
	}}
	return doc
}

func TestDecodeGLTF(t *testing.T) {
	m, err := DecodeGLTF(quadDocument())
	require.NoError(t, err)

	require.Len(t, m.Shapes, 1)
	wall := m.Shapes[0]
	assert.Equal(t, "wall", wall.Name)

	assert.Equal(t, 7, m.Attrib.VertexCount())
	assert.Equal(t, 4, m.Attrib.NormalCount())
	assert.Equal(t, 4, m.Attrib.TexCoordCount())

	require.Len(t, m.Materials, 2)
	assert.Equal(t, "brick.png", m.Materials[0].DiffuseTex)
	assert.Equal(t, "default", m.Materials[1].Name)

	assert.Equal(t, Index{Vertex: 0, Normal: 0, TexCoord: 0}, wall.Indices[0])
	assert.Equal(t, []int{0, 0, 1}, wall.MaterialIDs)

	// The second primitive is not indexed and has no normals or texcoords.
	assert.Equal(t, Index{Vertex: 4, Normal: -1, TexCoord: -1}, wall.Indices[6])
	assert.Equal(t, Index{Vertex: 6, Normal: -1, TexCoord: -1}, wall.Indices[8])
}
