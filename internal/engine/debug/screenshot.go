// Package debug provides debug visualization and capture utilities.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for output names with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Encode writes img to w in the format named by ext (".png", ".bmp",
// ".tif", ".tiff", ".jpg" or ".jpeg").
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SaveImage encodes img to path, choosing the format from its extension.
// Parent directories are created.
func SaveImage(path string, img image.Image) error {
	ext := filepath.Ext(path)
	if err := Encode(io.Discard, ext, image.NewGray(image.Rect(0, 0, 1, 1))); errors.Is(err, ErrUnsupportedFormat) {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(file, ext, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}

// ScreenshotCapture writes timestamped captures into a directory.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	ext       string
	now       func() time.Time
}

// NewScreenshotCapture creates a capture handler writing PNG files.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		ext:       ".png",
		now:       time.Now,
	}
}

// SetFormat selects the file extension used for new captures.
func (sc *ScreenshotCapture) SetFormat(ext string) error {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if err := Encode(io.Discard, ext, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		return err
	}
	sc.ext = strings.ToLower(ext)
	return nil
}

// Capture saves img under a generated name and returns the path.
func (sc *ScreenshotCapture) Capture(img image.Image) (string, error) {
	filename := sc.GenerateFilename()
	if err := SaveImage(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s%s", sc.prefix, timestamp, sc.ext)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
