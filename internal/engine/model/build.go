package model

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/archsim/pkg/formats"
)

// unitTolerance bounds how far a stored tangent or bitangent length may
// drift from 1.
const unitTolerance = 1e-3

// Build runs the full mesh pipeline: material grouping, deduplication and
// tangent generation. Malformed input aborts the build.
func Build(src *formats.Model, opts BuildOptions) (*Mesh, BuildStats, error) {
	var stats BuildStats

	groups, dropped := GroupByMaterial(src.Shapes, len(src.Materials))
	stats.DroppedFaces = dropped

	mesh, err := Deduplicate(&src.Attrib, groups)
	if err != nil {
		return nil, stats, fmt.Errorf("deduplicating vertices: %w", err)
	}

	stats.Tangent, err = BuildTangents(mesh.Vertices, mesh.Indices, opts.Tangents)
	if err != nil {
		return nil, stats, fmt.Errorf("building tangents: %w", err)
	}

	mesh.Bounds = computeBounds(mesh.Vertices)

	if err := Validate(mesh); err != nil {
		return nil, stats, err
	}
	return mesh, stats, nil
}

// Validate checks the structural invariants of a built mesh: indices in
// range, partitions contiguous and covering the index buffer, and tangent
// frames finite and unit length or zero.
func Validate(m *Mesh) error {
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d is %d with %d vertices", ErrInvalidMesh, i, idx, len(m.Vertices))
		}
	}

	next := 0
	for i, p := range m.Partitions {
		if p.StartIndex != next {
			return fmt.Errorf("%w: partition %d starts at %d, want %d", ErrInvalidMesh, i, p.StartIndex, next)
		}
		if p.Size < 0 || p.Size%3 != 0 {
			return fmt.Errorf("%w: partition %d has size %d", ErrInvalidMesh, i, p.Size)
		}
		next += p.Size
	}
	if next != len(m.Indices) {
		return fmt.Errorf("%w: partitions cover %d of %d indices", ErrInvalidMesh, next, len(m.Indices))
	}

	for i := range m.Vertices {
		v := &m.Vertices[i]
		if !unitOrZero(v.Tangent) {
			return fmt.Errorf("%w: vertex %d tangent %v", ErrInvalidMesh, i, v.Tangent)
		}
		if !unitOrZero(v.Bitangent) {
			return fmt.Errorf("%w: vertex %d bitangent %v", ErrInvalidMesh, i, v.Bitangent)
		}
	}
	return nil
}

func unitOrZero(v [3]float32) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	if v == [3]float32{} {
		return true
	}
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	return math32.Abs(l-1) <= unitTolerance
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for i := range vertices[1:] {
		updateBounds(&b, vertices[i+1].Position)
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
