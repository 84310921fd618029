package formats

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# two materials, one quad and one triangle
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
o floor
usemtl stone
f 1/1/1 2/2/1 3/3/1 4/4/1
o roof
usemtl wood
f -4/-4/-1 -2/-2/-1 -1/-1/-1
`

const sceneMTL = `newmtl stone
Kd 0.5 0.5 0.5
map_Kd textures\stone_diff.png
disp textures/stone_ddn.png
newmtl wood
map_Kd -s 2 2 1 wood.png
map_d wood_mask.png
`

func openFrom(files map[string]string) func(string) (io.ReadCloser, error) {
	return func(name string) (io.ReadCloser, error) {
		data, ok := files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(data)), nil
	}
}

func TestParseOBJ_FanTriangulation(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), OBJOptions{
		OpenMaterial: openFrom(map[string]string{"scene.mtl": sceneMTL}),
	})
	require.NoError(t, err)
	require.Empty(t, m.Warnings)

	require.Len(t, m.Shapes, 2)
	floor := m.Shapes[0]
	assert.Equal(t, "floor", floor.Name)
	assert.Equal(t, 2, floor.FaceCount())
	assert.Equal(t, []int{0, 0}, floor.MaterialIDs)
	// Fan around the first corner: (0,1,2), (0,2,3).
	got := []int{}
	for _, idx := range floor.Indices {
		got = append(got, idx.Vertex)
	}
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, got)

	assert.Equal(t, 3, m.TriangleCount())
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), OBJOptions{
		OpenMaterial: openFrom(map[string]string{"scene.mtl": sceneMTL}),
	})
	require.NoError(t, err)

	roof := m.Shapes[1]
	assert.Equal(t, []int{1}, roof.MaterialIDs)
	assert.Equal(t, []Index{
		{Vertex: 0, Normal: 0, TexCoord: 0},
		{Vertex: 2, Normal: 0, TexCoord: 2},
		{Vertex: 3, Normal: 0, TexCoord: 3},
	}, roof.Indices)
}

func TestParseOBJ_MissingAttributes(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\nf 1 2 3\n"
	m, err := ParseOBJ(strings.NewReader(src), OBJOptions{})
	require.NoError(t, err)
	require.Len(t, m.Shapes, 1)

	idx := m.Shapes[0].Indices
	assert.Equal(t, Index{Vertex: 0, Normal: 0, TexCoord: -1}, idx[0])
	assert.Equal(t, Index{Vertex: 0, Normal: -1, TexCoord: -1}, idx[3])
	// No usemtl: faces carry material -1.
	assert.Equal(t, []int{-1, -1}, m.Shapes[0].MaterialIDs)
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"zero index", "v 0 0 0\nf 0 1 1\n", ErrInvalidIndex},
		{"relative before start", "v 0 0 0\nf -2 -1 -1\n", ErrInvalidIndex},
		{"garbage index", "v 0 0 0\nf a b c\n", ErrInvalidIndex},
		{"short vertex", "v 0 0\n", ErrInvalidOBJ},
		{"bad number", "vn 0 x 1\n", ErrInvalidOBJ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src), OBJOptions{})
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseOBJ() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseOBJ_Warnings(t *testing.T) {
	src := "mtllib missing.mtl\nusemtl nothing\nv 0 0 0\nf 1 1\n"
	m, err := ParseOBJ(strings.NewReader(src), OBJOptions{OpenMaterial: openFrom(nil)})
	require.NoError(t, err)
	assert.Len(t, m.Warnings, 3)
	assert.Empty(t, m.Shapes)
}

func TestLoadOBJ_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.obj"), []byte(quadOBJ), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(sceneMTL), 0o644))

	m, err := LoadOBJ(filepath.Join(dir, "scene.obj"), nil)
	require.NoError(t, err)
	require.Len(t, m.Materials, 2)
	assert.Equal(t, "stone", m.Materials[0].Name)
	assert.Equal(t, 4, m.Attrib.VertexCount())
	assert.Equal(t, 4, m.Attrib.TexCoordCount())
	assert.Equal(t, 1, m.Attrib.NormalCount())
}

func TestLoadOBJ_NotFound(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
