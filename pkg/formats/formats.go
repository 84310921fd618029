// Package formats provides parsers for the polygon model formats the viewer
// can load: Wavefront OBJ with MTL material libraries, and glTF 2.0.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/archsim/pkg/encoding"
)

// ErrUnsupportedModel is returned for files whose extension names no known format.
var ErrUnsupportedModel = errors.New("unsupported model format")

// Extensions lists the model file extensions Load accepts.
var Extensions = []string{"obj", "gltf", "glb"}

// Load reads a model file, choosing the parser from its extension. names
// converts OBJ/MTL material and texture names; it may be nil.
func Load(path string, names *encoding.Decoder) (*Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path, names)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, filepath.Base(path))
	}
}
