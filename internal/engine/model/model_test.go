package model

import (
	"errors"
	gomath "math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/archsim/pkg/formats"
)

// cubeModel returns a unit cube with per-face normals and a full 0..1 UV
// square on every face, all faces using material 0.
func cubeModel() *formats.Model {
	m := &formats.Model{
		Attrib: formats.Attrib{
			Vertices: []float32{
				-1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1,
				-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1, 1,
			},
			Normals: []float32{
				0, 0, -1, 0, 0, 1, -1, 0, 0, 1, 0, 0, 0, -1, 0, 0, 1, 0,
			},
			TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
		},
		Materials: []formats.Material{{Name: "cube"}},
	}

	// Counter-clockwise corners per face, seen from outside.
	faces := [6][4]int{
		{1, 0, 3, 2}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 4, 7, 3}, // -X
		{5, 1, 2, 6}, // +X
		{0, 1, 5, 4}, // -Y
		{7, 6, 2, 3}, // +Y
	}
	var shape formats.Shape
	for n, f := range faces {
		for _, c := range [6]int{0, 1, 2, 0, 2, 3} {
			shape.Indices = append(shape.Indices, formats.Index{Vertex: f[c], Normal: n, TexCoord: c})
		}
		shape.MaterialIDs = append(shape.MaterialIDs, 0, 0)
	}
	m.Shapes = []formats.Shape{shape}
	return m
}

func TestBuild_Cube(t *testing.T) {
	mesh, stats, err := Build(cubeModel(), BuildOptions{})
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 24)
	assert.Len(t, mesh.Indices, 36)
	assert.Equal(t, []Partition{{MaterialID: 0, StartIndex: 0, Size: 36}}, mesh.Partitions)
	assert.Equal(t, 12, mesh.TriangleCount())

	assert.Zero(t, stats.DroppedFaces)
	assert.Zero(t, stats.Tangent.SkippedTriangles)
	assert.Zero(t, stats.Tangent.ZeroTangents)

	assert.Equal(t, Bounds{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}, mesh.Bounds)
}

func TestBuild_TangentsOrthogonalToNormals(t *testing.T) {
	mesh, _, err := Build(cubeModel(), BuildOptions{})
	require.NoError(t, err)

	for i, v := range mesh.Vertices {
		if v.Tangent == ([3]float32{}) {
			continue
		}
		d := dot(v.Tangent, v.Normal)
		assert.InDelta(t, 0, d, 1e-4, "vertex %d: dot(T,N)", i)
		assert.InDelta(t, 1, length(v.Tangent), 1e-4, "vertex %d: |T|", i)
		assert.InDelta(t, 1, length(v.Bitangent), 1e-4, "vertex %d: |B|", i)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	src := cubeModel()
	once, _ := GroupByMaterial(src.Shapes, 1)
	twice := [][]formats.Index{append(append([]formats.Index{}, once[0]...), once[0]...)}

	m1, err := Deduplicate(&src.Attrib, once)
	require.NoError(t, err)
	m2, err := Deduplicate(&src.Attrib, twice)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(m2.Vertices), len(m1.Vertices))
	require.Len(t, m2.Indices, 2*len(m1.Indices))
	for i, idx := range m2.Indices {
		want := m1.Vertices[m1.Indices[i%len(m1.Indices)]]
		assert.Equal(t, want, m2.Vertices[idx], "index %d", i)
	}
	require.NoError(t, Validate(m2))
}

func TestDeduplicate_BitExact(t *testing.T) {
	negZero := float32(gomath.Copysign(0, -1))
	attrib := formats.Attrib{
		Vertices:  []float32{0, 0, 0, negZero, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1},
		TexCoords: []float32{0, 0},
	}
	corner := func(v int) formats.Index { return formats.Index{Vertex: v, Normal: 0, TexCoord: 0} }
	groups := [][]formats.Index{{corner(0), corner(2), corner(3), corner(1), corner(2), corner(3)}}

	mesh, err := Deduplicate(&attrib, groups)
	require.NoError(t, err)
	// +0 and -0 compare equal as floats but are distinct vertices.
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 3, 1, 2}, mesh.Indices)
}

func TestDeduplicate_OutOfRange(t *testing.T) {
	src := cubeModel()
	tests := []struct {
		name  string
		index formats.Index
	}{
		{"position", formats.Index{Vertex: 8, Normal: 0, TexCoord: 0}},
		{"normal", formats.Index{Vertex: 0, Normal: 6, TexCoord: 0}},
		{"missing texcoord", formats.Index{Vertex: 0, Normal: 0, TexCoord: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := formats.Index{Vertex: 0, Normal: 0, TexCoord: 0}
			_, err := Deduplicate(&src.Attrib, [][]formats.Index{{ok, ok, tt.index}})
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("Deduplicate() error = %v, want ErrIndexOutOfRange", err)
			}
		})
	}
}

func TestDeduplicate_NotTriangulated(t *testing.T) {
	src := cubeModel()
	ok := formats.Index{Vertex: 0, Normal: 0, TexCoord: 0}
	_, err := Deduplicate(&src.Attrib, [][]formats.Index{{ok, ok}})
	assert.ErrorIs(t, err, ErrNotTriangulated)
}

func TestGroupByMaterial(t *testing.T) {
	c := func(v int) formats.Index { return formats.Index{Vertex: v} }
	shapes := []formats.Shape{
		{
			Indices:     []formats.Index{c(0), c(1), c(2), c(3), c(4), c(5), c(6), c(7), c(8)},
			MaterialIDs: []int{2, -1, 0},
		},
		{
			Indices:     []formats.Index{c(9), c(10), c(11), c(12), c(13), c(14)},
			MaterialIDs: []int{5, 2},
		},
	}

	groups, dropped := GroupByMaterial(shapes, 3)
	assert.Equal(t, 2, dropped)
	require.Len(t, groups, 3)
	assert.Equal(t, []formats.Index{c(6), c(7), c(8)}, groups[0])
	assert.Empty(t, groups[1])
	assert.Equal(t, []formats.Index{c(0), c(1), c(2), c(12), c(13), c(14)}, groups[2])
}

func TestBuild_EmptyMaterialKeepsPartition(t *testing.T) {
	src := cubeModel()
	src.Materials = append(src.Materials, formats.Material{Name: "unused"}, formats.Material{Name: "top"})
	// Move the +Y face (last two triangles) to material 2.
	ids := src.Shapes[0].MaterialIDs
	ids[10], ids[11] = 2, 2

	mesh, _, err := Build(src, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, []Partition{
		{MaterialID: 0, StartIndex: 0, Size: 30},
		{MaterialID: 1, StartIndex: 30, Size: 0},
		{MaterialID: 2, StartIndex: 30, Size: 6},
	}, mesh.Partitions)
}

func TestBuild_DropsFacesWithoutMaterial(t *testing.T) {
	src := cubeModel()
	src.Shapes[0].MaterialIDs[0] = -1

	mesh, stats, err := Build(src, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DroppedFaces)
	assert.Len(t, mesh.Indices, 33)
}

func TestValidate(t *testing.T) {
	good := func() *Mesh {
		m, _, err := Build(cubeModel(), BuildOptions{})
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name   string
		mutate func(m *Mesh)
	}{
		{"index out of range", func(m *Mesh) { m.Indices[5] = uint32(len(m.Vertices)) }},
		{"partition gap", func(m *Mesh) { m.Partitions[0].StartIndex = 3 }},
		{"partition short", func(m *Mesh) { m.Partitions[0].Size = 33 }},
		{"non-unit tangent", func(m *Mesh) { m.Vertices[0].Tangent = [3]float32{2, 0, 0} }},
		{"nan bitangent", func(m *Mesh) { m.Vertices[1].Bitangent[0] = float32(gomath.NaN()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := good()
			require.NoError(t, Validate(m))
			tt.mutate(m)
			assert.ErrorIs(t, Validate(m), ErrInvalidMesh)
		})
	}
}

func TestVertexLess(t *testing.T) {
	vs := []Vertex{
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
	}
	sorted := append([]Vertex{}, vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	assert.Equal(t, []Vertex{vs[2], vs[3], vs[1], vs[0]}, sorted)
	assert.False(t, vs[0].Less(vs[0]))
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func length(a [3]float32) float32 {
	return float32(gomath.Sqrt(float64(dot(a, a))))
}
