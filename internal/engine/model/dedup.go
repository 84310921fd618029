package model

import (
	"fmt"

	"github.com/Faultbox/archsim/pkg/formats"
)

// GroupByMaterial collects the face corners of all shapes per material,
// keeping shape and face order. Faces whose material id is outside
// [0, materialCount) are dropped and counted.
func GroupByMaterial(shapes []formats.Shape, materialCount int) (groups [][]formats.Index, dropped int) {
	groups = make([][]formats.Index, materialCount)
	for si := range shapes {
		s := &shapes[si]
		for f, matID := range s.MaterialIDs {
			if matID < 0 || matID >= materialCount || 3*f+2 >= len(s.Indices) {
				dropped++
				continue
			}
			groups[matID] = append(groups[matID], s.Indices[3*f:3*f+3]...)
		}
	}
	return groups, dropped
}

// Deduplicate materializes every corner from the attribute pools and merges
// bit-identical vertices. Materials are walked in ascending order and one
// partition is recorded per material, including empty ones.
func Deduplicate(attrib *formats.Attrib, groups [][]formats.Index) (*Mesh, error) {
	mesh := &Mesh{Partitions: make([]Partition, 0, len(groups))}
	lookup := make(map[vertexKey]uint32)

	for matID, corners := range groups {
		if len(corners)%3 != 0 {
			return nil, fmt.Errorf("material %d: %d corners: %w", matID, len(corners), ErrNotTriangulated)
		}
		start := len(mesh.Indices)

		for c, idx := range corners {
			v, err := materialize(attrib, idx)
			if err != nil {
				return nil, fmt.Errorf("material %d corner %d: %w", matID, c, err)
			}
			key := keyOf(&v)
			vi, ok := lookup[key]
			if !ok {
				vi = uint32(len(mesh.Vertices))
				lookup[key] = vi
				mesh.Vertices = append(mesh.Vertices, v)
			}
			mesh.Indices = append(mesh.Indices, vi)
		}

		mesh.Partitions = append(mesh.Partitions, Partition{
			MaterialID: matID,
			StartIndex: start,
			Size:       len(corners),
		})
	}
	return mesh, nil
}

// materialize builds a vertex from the pools with zero tangent and bitangent.
func materialize(a *formats.Attrib, idx formats.Index) (Vertex, error) {
	var v Vertex
	if idx.Vertex < 0 || idx.Vertex >= a.VertexCount() {
		return v, fmt.Errorf("position %d of %d: %w", idx.Vertex, a.VertexCount(), ErrIndexOutOfRange)
	}
	if idx.Normal < 0 || idx.Normal >= a.NormalCount() {
		return v, fmt.Errorf("normal %d of %d: %w", idx.Normal, a.NormalCount(), ErrIndexOutOfRange)
	}
	if idx.TexCoord < 0 || idx.TexCoord >= a.TexCoordCount() {
		return v, fmt.Errorf("texcoord %d of %d: %w", idx.TexCoord, a.TexCoordCount(), ErrIndexOutOfRange)
	}
	copy(v.Position[:], a.Vertices[3*idx.Vertex:])
	copy(v.Normal[:], a.Normals[3*idx.Normal:])
	copy(v.TexCoord[:], a.TexCoords[2*idx.TexCoord:])
	return v, nil
}
