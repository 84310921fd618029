// Package encoding normalizes names found in model and material files.
// Exporters on Windows often write texture paths in a legacy code page with
// backslash separators.
package encoding

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Supported legacy encodings, keyed by the names accepted in config.
var codePages = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"euc-kr":       korean.EUCKR,
	"shift-jis":    japanese.ShiftJIS,
}

// Decoder converts raw name bytes to UTF-8.
type Decoder struct {
	enc encoding.Encoding
}

// NewDecoder returns a decoder for the named code page. An empty name or
// "utf-8" returns a pass-through decoder.
func NewDecoder(name string) (*Decoder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "utf-8" || name == "utf8" {
		return &Decoder{}, nil
	}
	enc, ok := codePages[name]
	if !ok {
		return nil, fmt.Errorf("unsupported name encoding %q", name)
	}
	return &Decoder{enc: enc}, nil
}

// String converts s to UTF-8. Input that is already valid UTF-8 is returned
// unchanged, as is input the code page cannot decode.
func (d *Decoder) String(s string) string {
	if d == nil || d.enc == nil || utf8.ValidString(s) {
		return s
	}
	result, _, err := transform.String(d.enc.NewDecoder(), s)
	if err != nil {
		return s
	}
	return result
}

// NormalizeAssetPath turns a texture reference into a clean slash-separated
// relative path.
func NormalizeAssetPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}
