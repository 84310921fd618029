package formats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	obj := "mtllib box.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl red\nf 1 2 3\n"
	mtl := "newmtl red\nKd 1 0 0\nmap_Kd red.png\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Box.OBJ"), []byte(obj), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.mtl"), []byte(mtl), 0644))

	m, err := Load(filepath.Join(dir, "Box.OBJ"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TriangleCount())
	require.Len(t, m.Materials, 1)
	assert.Equal(t, "red.png", m.Materials[0].DiffuseTex)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("scene.fbx", nil)
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.obj"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedModel, "missing file reported as unsupported format")
}
