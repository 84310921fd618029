package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures", "brick.png"), []byte("png"), 0o644))

	m := NewManager()
	require.NoError(t, m.AddDir(dir))

	for _, name := range []string{"textures/brick.png", `textures\brick.png`, "./textures//brick.png", "Textures/Brick.PNG"} {
		t.Run(name, func(t *testing.T) {
			data, err := m.Load(name)
			require.NoError(t, err)
			assert.Equal(t, []byte("png"), data)
		})
	}
}

func TestManagerPriority(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{"a.txt": {Data: []byte("base")}, "b.txt": {Data: []byte("only base")}})
	m.AddFS("override", fstest.MapFS{"a.txt": {Data: []byte("override")}})

	data, err := m.Load("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "override", string(data))

	data, err = m.Load("b.txt")
	require.NoError(t, err)
	assert.Equal(t, "only base", string(data))

	assert.Equal(t, []string{"override", "base"}, m.Roots())
}

func TestManagerNotFound(t *testing.T) {
	m := NewManager()
	m.AddFS("root", fstest.MapFS{})

	for _, name := range []string{"missing.png", "", "../escape.png", "/abs.png"} {
		_, err := m.Load(name)
		assert.True(t, errors.Is(err, ErrNotFound), "%q: %v", name, err)
	}
}

func TestManagerAddDirErrors(t *testing.T) {
	m := NewManager()
	assert.Error(t, m.AddDir(filepath.Join(t.TempDir(), "nope")))

	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	assert.Error(t, m.AddDir(f))
}

func TestCacheStats(t *testing.T) {
	m := NewManager()
	m.AddFS("root", fstest.MapFS{"x": {Data: []byte("1")}})

	_, err := m.Load("x")
	require.NoError(t, err)
	_, err = m.Load("x")
	require.NoError(t, err)

	hits, misses := m.cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	m.Reset()
	hits, misses = m.cache.Stats()
	assert.Zero(t, hits+misses)
	assert.Empty(t, m.Roots())
}
