// Package assets resolves and caches files referenced by models.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/Faultbox/archsim/pkg/encoding"
)

// ErrNotFound is returned when no search root contains a file.
var ErrNotFound = errors.New("asset not found")

// Manager loads files from a stack of search roots.
type Manager struct {
	roots []fs.FS
	names []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a directory as a search root.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding asset dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding asset dir: %s is not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddFS adds a file system as a search root.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, fsys)
	m.names = append(m.names, name)
	m.mu.Unlock()
}

// Roots returns the names of the search roots in priority order.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.names))
	for i := len(m.names) - 1; i >= 0; i-- {
		out = append(out, m.names[i])
	}
	return out
}

// Load reads a file. Names written with backslashes or redundant elements
// are normalized first; if the exact name is missing, a lower-case match
// is tried, since material libraries authored on Windows often disagree
// with the case of the files on disk.
func (m *Manager) Load(name string) ([]byte, error) {
	key := encoding.NormalizeAssetPath(name)
	key = strings.TrimPrefix(key, "./")
	if key == "" || path.IsAbs(key) || strings.HasPrefix(key, "../") {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := []string{key}
	if lower := strings.ToLower(key); lower != key {
		candidates = append(candidates, lower)
	}
	for i := len(m.roots) - 1; i >= 0; i-- {
		for _, c := range candidates {
			data, err := fs.ReadFile(m.roots[i], c)
			if err == nil {
				m.cache.Set(key, data)
				return data, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Reset drops every search root and the cache.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.names = nil
	m.cache.Clear()
}

// CacheStats reports cache hits and misses since the last Reset.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
