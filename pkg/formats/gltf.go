// glTF 2.0 mesh source.
package formats

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF opens a .gltf or .glb file and converts it with DecodeGLTF.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF file: %w", err)
	}
	return DecodeGLTF(doc)
}

// DecodeGLTF converts the triangle primitives of a glTF document into a Model
// with one shape per mesh. Vertices stay in mesh space; node transforms are
// not applied. Primitives without a material share an extra default material.
func DecodeGLTF(doc *gltf.Document) (*Model, error) {
	m := &Model{}
	for _, gm := range doc.Materials {
		m.Materials = append(m.Materials, gltfMaterial(doc, gm))
	}
	defaultMat := -1

	for mi, gmesh := range doc.Meshes {
		shape := Shape{Name: gmesh.Name}
		if shape.Name == "" {
			shape.Name = fmt.Sprintf("mesh_%d", mi)
		}

		for pi, prim := range gmesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				m.Warnings = append(m.Warnings, fmt.Sprintf("mesh %d primitive %d: mode %v skipped", mi, pi, prim.Mode))
				continue
			}

			matID := -1
			if prim.Material != nil && *prim.Material < len(m.Materials) {
				matID = *prim.Material
			} else {
				if defaultMat < 0 {
					defaultMat = len(doc.Materials)
					m.Materials = append(m.Materials, Material{Name: "default", Diffuse: [3]float32{1, 1, 1}, Dissolve: 1})
				}
				matID = defaultMat
			}

			if err := appendPrimitive(doc, m, &shape, prim, matID); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
		if len(shape.Indices) > 0 {
			m.Shapes = append(m.Shapes, shape)
		}
	}
	return m, nil
}

// appendPrimitive adds a primitive's attributes to the shared pools and its
// triangles to shape. A missing NORMAL or TEXCOORD_0 leaves those indices at -1.
func appendPrimitive(doc *gltf.Document, m *Model, shape *Shape, prim *gltf.Primitive, matID int) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%d indices is not a triangle list", len(indices))
	}

	a := &m.Attrib
	posBase, nrmBase, uvBase := a.VertexCount(), a.NormalCount(), a.TexCoordCount()
	for _, p := range positions {
		a.Vertices = append(a.Vertices, p[0], p[1], p[2])
	}
	for _, n := range normals {
		a.Normals = append(a.Normals, n[0], n[1], n[2])
	}
	for _, uv := range uvs {
		a.TexCoords = append(a.TexCoords, uv[0], uv[1])
	}

	for i, vi := range indices {
		idx := Index{Vertex: posBase + int(vi), Normal: -1, TexCoord: -1}
		if normals != nil {
			idx.Normal = nrmBase + int(vi)
		}
		if uvs != nil {
			idx.TexCoord = uvBase + int(vi)
		}
		shape.Indices = append(shape.Indices, idx)
		if i%3 == 0 {
			shape.MaterialIDs = append(shape.MaterialIDs, matID)
		}
	}
	return nil
}

// gltfMaterial maps a glTF material onto the OBJ material model. Only
// textures referenced by URI can be named; embedded images are skipped.
func gltfMaterial(doc *gltf.Document, gm *gltf.Material) Material {
	mat := Material{Name: gm.Name, Diffuse: [3]float32{1, 1, 1}, Dissolve: 1}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		mat.Diffuse = [3]float32{float32(cf[0]), float32(cf[1]), float32(cf[2])}
		mat.Dissolve = float32(cf[3])
		if pbr.BaseColorTexture != nil {
			mat.DiffuseTex = textureURI(doc, pbr.BaseColorTexture.Index)
		}
	}
	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		mat.BumpTex = textureURI(doc, *gm.NormalTexture.Index)
	}
	if gm.AlphaMode == gltf.AlphaMask {
		mat.AlphaTex = mat.DiffuseTex
	}
	return mat
}

func textureURI(doc *gltf.Document, texIdx int) string {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return ""
	}
	img := doc.Images[*doc.Textures[texIdx].Source]
	if img.BufferView != nil || img.IsEmbeddedResource() {
		return ""
	}
	return img.URI
}
