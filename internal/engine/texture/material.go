package texture

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/Faultbox/archsim/pkg/formats"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrTextureLoad is returned when a material names a texture that cannot be
// read or decoded.
var ErrTextureLoad = errors.New("texture: load failed")

// MaterialTextures holds the texture names bound to units 1 to 4 when a
// partition is drawn. It is resolved once per material at load time.
type MaterialTextures struct {
	Diffuse  uint32
	Specular uint32
	Alpha    uint32
	Normal   uint32

	HasOpacityMask bool
	HasNormalMap   bool
}

// Slots lists which file feeds each texture unit of a material.
type Slots struct {
	Diffuse  string
	Specular string
	Alpha    string
	Normal   string
}

// SlotsFor maps a material's texture names onto units. A material with an
// alpha map samples its opacity from the diffuse texture's alpha channel.
func SlotsFor(m *formats.Material) Slots {
	s := Slots{
		Diffuse:  m.DiffuseTex,
		Specular: m.SpecularTex,
		Normal:   m.NormalTex(),
	}
	if m.HasOpacityMask() {
		s.Alpha = m.DiffuseTex
	}
	return s
}

// Names returns the distinct non-empty file names in the slots.
func (s Slots) Names() []string {
	var out []string
	seen := map[string]bool{}
	for _, n := range []string{s.Diffuse, s.Specular, s.Alpha, s.Normal} {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// Fallback textures used for empty slots.
type Fallback struct {
	White uint32 // 1x1 opaque white
	Flat  uint32 // 1x1 tangent-space +Z normal
}

// gpu creates and deletes textures. The GL implementation is glTextures;
// tests use an in-memory one.
type gpu interface {
	upload(img *image.RGBA) (uint32, error)
	solid(c [4]uint8) uint32
	release(id uint32)
}

// Loader reads, decodes and uploads textures, uploading each file once. A
// loader belongs to one model: names are relative to that model's files, so
// a new model gets a new loader.
type Loader struct {
	open     func(name string) ([]byte, error)
	gpu      gpu
	cache    map[string]uint32
	fallback Fallback
}

// NewLoader creates a loader that reads files with open. It must be called
// with a current GL context.
func NewLoader(open func(name string) ([]byte, error)) *Loader {
	return newLoader(open, glTextures{})
}

func newLoader(open func(name string) ([]byte, error), g gpu) *Loader {
	return &Loader{
		open:  open,
		gpu:   g,
		cache: make(map[string]uint32),
		fallback: Fallback{
			White: g.solid([4]uint8{255, 255, 255, 255}),
			Flat:  g.solid([4]uint8{128, 128, 255, 255}),
		},
	}
}

// Fallback returns the fallback textures.
func (l *Loader) Fallback() Fallback { return l.fallback }

// Load returns the texture for name, decoding and uploading it on first use.
func (l *Loader) Load(name string) (uint32, error) {
	if id, ok := l.cache[name]; ok {
		return id, nil
	}
	data, err := l.open(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrTextureLoad, name, err)
	}
	img, err := Decode(name, data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTextureLoad, err)
	}
	id, err := l.gpu.upload(img)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrTextureLoad, name, err)
	}
	l.cache[name] = id
	return id, nil
}

// Resolve loads every texture a material names. Empty slots take the
// fallback textures.
func (l *Loader) Resolve(m *formats.Material) (MaterialTextures, error) {
	slots := SlotsFor(m)
	mt := MaterialTextures{
		Diffuse:        l.fallback.White,
		Specular:       l.fallback.White,
		Alpha:          l.fallback.White,
		Normal:         l.fallback.Flat,
		HasOpacityMask: slots.Alpha != "",
		HasNormalMap:   slots.Normal != "",
	}
	for _, slot := range []struct {
		name string
		dst  *uint32
	}{
		{slots.Diffuse, &mt.Diffuse},
		{slots.Specular, &mt.Specular},
		{slots.Alpha, &mt.Alpha},
		{slots.Normal, &mt.Normal},
	} {
		if slot.name == "" {
			continue
		}
		id, err := l.Load(slot.name)
		if err != nil {
			return mt, fmt.Errorf("material %q: %w", m.Name, err)
		}
		*slot.dst = id
	}
	return mt, nil
}

// ResolveAll resolves every material in order.
func (l *Loader) ResolveAll(materials []formats.Material) ([]MaterialTextures, error) {
	out := make([]MaterialTextures, len(materials))
	for i := range materials {
		mt, err := l.Resolve(&materials[i])
		if err != nil {
			return nil, err
		}
		out[i] = mt
	}
	return out, nil
}

// Count returns the number of uploaded files.
func (l *Loader) Count() int { return len(l.cache) }

// Destroy deletes every texture the loader uploaded, fallbacks included.
func (l *Loader) Destroy() {
	for name, id := range l.cache {
		l.gpu.release(id)
		delete(l.cache, name)
	}
	if l.fallback.White != 0 {
		l.gpu.release(l.fallback.White)
	}
	if l.fallback.Flat != 0 {
		l.gpu.release(l.fallback.Flat)
	}
	l.fallback = Fallback{}
}

// ErrEmptyImage is returned by Upload for an image with no pixels.
var ErrEmptyImage = errors.New("texture: empty image")

// Upload creates a mipmapped, repeating 2D texture from img.
func Upload(img *image.RGBA) (uint32, error) {
	if img.Rect.Empty() || len(img.Pix) == 0 {
		return 0, ErrEmptyImage
	}
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

type glTextures struct{}

func (glTextures) upload(img *image.RGBA) (uint32, error) { return Upload(img) }

func (glTextures) solid(c [4]uint8) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&c[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (glTextures) release(id uint32) { gl.DeleteTextures(1, &id) }
