// OBJ (Wavefront) geometry parser.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/archsim/pkg/encoding"
)

// OBJ format errors.
var (
	ErrInvalidOBJ   = errors.New("invalid OBJ data")
	ErrInvalidIndex = errors.New("invalid OBJ index")
)

// Index references one face corner's attributes. A value of -1 means the
// attribute was not given for that corner.
type Index struct {
	Vertex   int
	Normal   int
	TexCoord int
}

// Attrib holds the shared attribute pools of a model. Vertices and Normals
// have three floats per entry, TexCoords two.
type Attrib struct {
	Vertices  []float32
	Normals   []float32
	TexCoords []float32
}

// VertexCount returns the number of positions in the pool.
func (a *Attrib) VertexCount() int { return len(a.Vertices) / 3 }

// NormalCount returns the number of normals in the pool.
func (a *Attrib) NormalCount() int { return len(a.Normals) / 3 }

// TexCoordCount returns the number of texture coordinates in the pool.
func (a *Attrib) TexCoordCount() int { return len(a.TexCoords) / 2 }

// Shape is a named group of triangles. Indices holds three corners per
// triangle; MaterialIDs holds one material per triangle, -1 when none.
type Shape struct {
	Name        string
	Indices     []Index
	MaterialIDs []int
}

// FaceCount returns the number of triangles in the shape.
func (s *Shape) FaceCount() int { return len(s.MaterialIDs) }

// Model is a parsed polygon model with its materials.
type Model struct {
	Attrib    Attrib
	Shapes    []Shape
	Materials []Material

	// Warnings collects recoverable problems found while parsing.
	Warnings []string
}

// TriangleCount returns the number of triangles across all shapes.
func (m *Model) TriangleCount() int {
	n := 0
	for i := range m.Shapes {
		n += m.Shapes[i].FaceCount()
	}
	return n
}

// OBJOptions controls OBJ parsing.
type OBJOptions struct {
	// OpenMaterial opens a material library referenced by mtllib. When nil,
	// material libraries are ignored.
	OpenMaterial func(name string) (io.ReadCloser, error)

	// Names converts material and texture names to UTF-8. Nil keeps them as-is.
	Names *encoding.Decoder
}

// objParser holds the state of a single ParseOBJ call.
type objParser struct {
	opts OBJOptions

	model       *Model
	shape       *Shape
	materialIdx map[string]int
	currentMat  int
	line        int
}

// ParseOBJ parses OBJ data. Polygons with more than three corners are
// triangulated as fans around their first corner.
func ParseOBJ(r io.Reader, opts OBJOptions) (*Model, error) {
	p := &objParser{
		opts:        opts,
		model:       &Model{},
		materialIdx: make(map[string]int),
		currentMat:  -1,
	}
	p.model.Shapes = append(p.model.Shapes, Shape{})
	p.shape = &p.model.Shapes[0]

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	// Drop empty shapes left behind by consecutive o/g statements.
	shapes := p.model.Shapes[:0]
	for _, s := range p.model.Shapes {
		if len(s.Indices) > 0 {
			shapes = append(shapes, s)
		}
	}
	p.model.Shapes = shapes

	return p.model, nil
}

func (p *objParser) parseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return nil
	}
	fields := strings.Fields(line)
	keyword, args := fields[0], fields[1:]

	switch keyword {
	case "v":
		return p.appendFloats(&p.model.Attrib.Vertices, args, 3)
	case "vn":
		return p.appendFloats(&p.model.Attrib.Normals, args, 3)
	case "vt":
		return p.appendFloats(&p.model.Attrib.TexCoords, args, 2)
	case "f":
		return p.parseFace(args)
	case "o", "g":
		p.startShape(strings.Join(args, " "))
	case "usemtl":
		p.useMaterial(p.opts.Names.String(strings.Join(args, " ")))
	case "mtllib":
		for _, name := range args {
			p.loadMaterials(p.opts.Names.String(name))
		}
	case "s", "l", "p", "vp":
		// Smoothing groups, lines, points and parameter-space vertices are not used.
	default:
		p.warnf("unknown directive %q", keyword)
	}
	return nil
}

// appendFloats appends the first n numbers of args. Trailing values, such as
// vertex colors on v lines or w on vt lines, are ignored.
func (p *objParser) appendFloats(dst *[]float32, args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("%w: line %d: expected %d values, got %d", ErrInvalidOBJ, p.line, n, len(args))
	}
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidOBJ, p.line, err)
		}
		*dst = append(*dst, float32(f))
	}
	return nil
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		p.warnf("face with %d corners skipped", len(args))
		return nil
	}

	corners := make([]Index, len(args))
	for i, arg := range args {
		idx, err := p.parseCorner(arg)
		if err != nil {
			return err
		}
		corners[i] = idx
	}

	for i := 1; i+1 < len(corners); i++ {
		p.shape.Indices = append(p.shape.Indices, corners[0], corners[i], corners[i+1])
		p.shape.MaterialIDs = append(p.shape.MaterialIDs, p.currentMat)
	}
	return nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based indices.
func (p *objParser) parseCorner(s string) (Index, error) {
	idx := Index{Vertex: -1, Normal: -1, TexCoord: -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return idx, fmt.Errorf("%w: line %d: corner %q", ErrInvalidIndex, p.line, s)
	}

	a := &p.model.Attrib
	var err error
	if idx.Vertex, err = p.resolve(parts[0], a.VertexCount()); err != nil {
		return idx, err
	}
	if idx.Vertex < 0 {
		return idx, fmt.Errorf("%w: line %d: corner %q has no position", ErrInvalidIndex, p.line, s)
	}
	if len(parts) > 1 {
		if idx.TexCoord, err = p.resolve(parts[1], a.TexCoordCount()); err != nil {
			return idx, err
		}
	}
	if len(parts) > 2 {
		if idx.Normal, err = p.resolve(parts[2], a.NormalCount()); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

// resolve converts a one-based (or negative, relative) OBJ index to zero-based.
// Forward references are kept as-is and caught when the mesh is built.
func (p *objParser) resolve(s string, count int) (int, error) {
	if s == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("%w: line %d: %q", ErrInvalidIndex, p.line, s)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		if count+n < 0 {
			return -1, fmt.Errorf("%w: line %d: relative index %d with %d entries", ErrInvalidIndex, p.line, n, count)
		}
		return count + n, nil
	default:
		return -1, fmt.Errorf("%w: line %d: index 0", ErrInvalidIndex, p.line)
	}
}

func (p *objParser) startShape(name string) {
	if len(p.shape.Indices) == 0 {
		p.shape.Name = name
		return
	}
	p.model.Shapes = append(p.model.Shapes, Shape{Name: name})
	p.shape = &p.model.Shapes[len(p.model.Shapes)-1]
}

func (p *objParser) useMaterial(name string) {
	id, ok := p.materialIdx[name]
	if !ok {
		p.warnf("material %q not found", name)
		id = -1
	}
	p.currentMat = id
}

func (p *objParser) loadMaterials(name string) {
	if p.opts.OpenMaterial == nil {
		return
	}
	rc, err := p.opts.OpenMaterial(name)
	if err != nil {
		p.warnf("material library %q: %v", name, err)
		return
	}
	defer rc.Close()

	mats, err := ParseMTL(rc, p.opts.Names)
	if err != nil {
		p.warnf("material library %q: %v", name, err)
		return
	}
	for _, m := range mats {
		if _, dup := p.materialIdx[m.Name]; dup {
			p.warnf("material %q defined twice, keeping first", m.Name)
			continue
		}
		p.materialIdx[m.Name] = len(p.model.Materials)
		p.model.Materials = append(p.model.Materials, m)
	}
}

func (p *objParser) warnf(format string, args ...any) {
	msg := fmt.Sprintf("line %d: ", p.line) + fmt.Sprintf(format, args...)
	p.model.Warnings = append(p.model.Warnings, msg)
}

// LoadOBJ parses an OBJ file from disk. Material libraries are resolved
// relative to the file's directory.
func LoadOBJ(path string, names *encoding.Decoder) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	model, err := ParseOBJ(f, OBJOptions{
		OpenMaterial: func(name string) (io.ReadCloser, error) {
			return os.Open(filepath.Join(dir, filepath.FromSlash(encoding.NormalizeAssetPath(name))))
		},
		Names: names,
	})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return model, nil
}
