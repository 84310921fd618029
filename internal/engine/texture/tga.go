package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types handled by DecodeTGA.
const (
	tgaTypeUncompressed = 2
	tgaTypeRLE          = 10

	tgaHeaderSize = 18

	// MaxTextureSize bounds each side of a decoded texture.
	MaxTextureSize = 16384
)

var errTGATruncated = errors.New("tga: data truncated")

// tgaReader walks the pixel stream of a TGA image and writes pixels to the
// destination in file order, honouring the origin bit of the descriptor.
type tgaReader struct {
	img         *image.RGBA
	data        []byte
	pos         int
	bpp         int
	width       int
	height      int
	topToBottom bool
	written     int
}

func (r *tgaReader) done() bool { return r.written >= r.width*r.height }

func (r *tgaReader) next() (color.RGBA, error) {
	if r.pos+r.bpp > len(r.data) {
		return color.RGBA{}, errTGATruncated
	}
	p := r.data[r.pos : r.pos+r.bpp]
	r.pos += r.bpp
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	return c, nil
}

func (r *tgaReader) put(c color.RGBA) {
	x, y := r.written%r.width, r.written/r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	r.img.SetRGBA(x, y, c)
	r.written++
}

// DecodeTGA decodes an uncompressed or RLE-compressed true-color TGA image.
// The standard library has no TGA decoder and the format has no magic number
// to register with image.RegisterFormat, so Decode dispatches on extension.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, errTGATruncated
	}
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	switch {
	case colorMapType != 0:
		return nil, errors.New("tga: color-mapped images not supported")
	case imageType != tgaTypeUncompressed && imageType != tgaTypeRLE:
		return nil, errors.New("tga: only true-color images supported")
	case bpp != 24 && bpp != 32:
		return nil, errors.New("tga: only 24 and 32 bit images supported")
	}
	if err := checkSize(width, height); err != nil {
		return nil, fmt.Errorf("tga: %w", err)
	}
	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	r := &tgaReader{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		data:        data[offset:],
		bpp:         bpp / 8,
		width:       width,
		height:      height,
		topToBottom: descriptor&0x20 != 0,
	}

	if imageType == tgaTypeUncompressed {
		for !r.done() {
			c, err := r.next()
			if err != nil {
				return nil, err
			}
			r.put(c)
		}
		return r.img, nil
	}

	for !r.done() {
		if r.pos >= len(r.data) {
			return nil, errTGATruncated
		}
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			c, err := r.next()
			if err != nil {
				return nil, err
			}
			for i := 0; i < count && !r.done(); i++ {
				r.put(c)
			}
			continue
		}
		for i := 0; i < count && !r.done(); i++ {
			c, err := r.next()
			if err != nil {
				return nil, err
			}
			r.put(c)
		}
	}
	return r.img, nil
}
