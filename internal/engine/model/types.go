// Package model turns a parsed polygon model into a deduplicated, indexed
// mesh with tangent-space data, partitioned by material.
package model

import (
	"errors"
	gomath "math"
)

// Mesh build errors.
var (
	ErrIndexOutOfRange = errors.New("attribute index out of range")
	ErrNotTriangulated = errors.New("index count is not a multiple of 3")
	ErrInvalidMesh     = errors.New("invalid mesh")
)

// FloatsPerVertex is the interleaved GPU layout size of a Vertex.
const FloatsPerVertex = 14

// Vertex is one interleaved mesh vertex.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	TexCoord  [2]float32
	Tangent   [3]float32
	Bitangent [3]float32
}

// floats returns the vertex fields in layout order.
func (v *Vertex) floats() [FloatsPerVertex]float32 {
	return [FloatsPerVertex]float32{
		v.Position[0], v.Position[1], v.Position[2],
		v.Normal[0], v.Normal[1], v.Normal[2],
		v.TexCoord[0], v.TexCoord[1],
		v.Tangent[0], v.Tangent[1], v.Tangent[2],
		v.Bitangent[0], v.Bitangent[1], v.Bitangent[2],
	}
}

// Less orders vertices lexicographically over position, normal, texcoord,
// tangent and bitangent.
func (v Vertex) Less(other Vertex) bool {
	a, b := v.floats(), other.floats()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// vertexKey identifies a vertex by the bit patterns of all of its fields,
// so -0 and +0 are different vertices.
type vertexKey [FloatsPerVertex]uint32

func keyOf(v *Vertex) vertexKey {
	var k vertexKey
	for i, f := range v.floats() {
		k[i] = gomath.Float32bits(f)
	}
	return k
}

// Partition is a contiguous run of indices drawn with one material.
type Partition struct {
	MaterialID int
	StartIndex int // offset into Mesh.Indices
	Size       int // index count, a multiple of 3
}

// Mesh holds the complete model mesh data ready for GPU upload.
type Mesh struct {
	Vertices   []Vertex
	Indices    []uint32
	Partitions []Partition
	Bounds     Bounds
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// TangentOptions controls the tangent-space builder.
type TangentOptions struct {
	// HandednessCorrection negates the tangent when (N x T) points away from
	// the bitangent. Off by default.
	HandednessCorrection bool
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	Tangents TangentOptions
}

// BuildStats reports what the builder dropped or could not resolve.
type BuildStats struct {
	// DroppedFaces counts triangles whose material id is outside the material list.
	DroppedFaces int
	Tangent      TangentStats
}

// TangentStats counts numerically degenerate cases. None of them is an error.
type TangentStats struct {
	// SkippedTriangles have a texcoord determinant below DegenerateUVThreshold.
	SkippedTriangles int
	// ZeroTangents are vertices left with a zero tangent.
	ZeroTangents int
}
