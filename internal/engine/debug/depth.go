package debug

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// DepthImage converts a bottom-up depth buffer in [0,1] to a top-down
// grayscale image. Near is dark; values outside the range are clamped.
func DepthImage(depth []float32, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	if len(depth) < width*height {
		return img
	}
	for y := 0; y < height; y++ {
		src := depth[(height-1-y)*width : (height-y)*width]
		for x, d := range src {
			img.SetGray(x, y, color.Gray{Y: depthByte(d)})
		}
	}
	return img
}

func depthByte(d float32) uint8 {
	switch {
	case d != d || d <= 0:
		return 0
	case d >= 1:
		return 255
	default:
		return uint8(d*255 + 0.5)
	}
}

// Thumbnail scales img so its longer side is at most maxSize, keeping the
// aspect ratio. Smaller images are returned unchanged.
func Thumbnail(img image.Image, maxSize uint) image.Image {
	b := img.Bounds()
	if maxSize == 0 || (uint(b.Dx()) <= maxSize && uint(b.Dy()) <= maxSize) {
		return img
	}
	if b.Dx() >= b.Dy() {
		return resize.Resize(maxSize, 0, img, resize.Bilinear)
	}
	return resize.Resize(0, maxSize, img, resize.Bilinear)
}
