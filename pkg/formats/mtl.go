// MTL (Wavefront material library) parser.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/archsim/pkg/encoding"
)

// Material describes surface parameters and texture references.
// Texture names are relative to the model's directory.
type Material struct {
	Name      string
	Ambient   [3]float32
	Diffuse   [3]float32
	Specular  [3]float32
	Shininess float32
	Dissolve  float32

	DiffuseTex      string // map_Kd
	SpecularTex     string // map_Ks
	AlphaTex        string // map_d
	BumpTex         string // map_bump, bump
	DisplacementTex string // disp, map_Disp
}

// NormalTex returns the texture used as a tangent-space normal map.
// Many exporters store the normal map under disp, so it takes precedence over bump.
func (m *Material) NormalTex() string {
	if m.DisplacementTex != "" {
		return m.DisplacementTex
	}
	return m.BumpTex
}

// HasOpacityMask reports whether the material names an alpha map.
func (m *Material) HasOpacityMask() bool {
	return m.AlphaTex != ""
}

// textureOptionArgs lists MTL texture options and how many values follow them.
var textureOptionArgs = map[string]int{
	"-blendu": 1, "-blendv": 1, "-boost": 1, "-cc": 1, "-clamp": 1,
	"-imfchan": 1, "-texres": 1, "-type": 1, "-bm": 1,
	"-mm": 2,
	"-o": 3, "-s": 3, "-t": 3,
}

// ParseMTL parses a material library.
func ParseMTL(r io.Reader, names *encoding.Decoder) ([]Material, error) {
	var (
		mats []Material
		cur  *Material
		line int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		keyword, args := fields[0], fields[1:]

		if keyword == "newmtl" {
			mats = append(mats, Material{
				Name:     names.String(strings.Join(args, " ")),
				Diffuse:  [3]float32{1, 1, 1},
				Dissolve: 1,
			})
			cur = &mats[len(mats)-1]
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("line %d: %q before newmtl", line, keyword)
		}

		var err error
		switch strings.ToLower(keyword) {
		case "ka":
			cur.Ambient, err = parseColor(args)
		case "kd":
			cur.Diffuse, err = parseColor(args)
		case "ks":
			cur.Specular, err = parseColor(args)
		case "ns":
			cur.Shininess, err = parseScalar(args)
		case "d":
			cur.Dissolve, err = parseScalar(args)
		case "tr":
			var tr float32
			tr, err = parseScalar(args)
			cur.Dissolve = 1 - tr
		case "map_kd":
			cur.DiffuseTex = names.String(textureName(args))
		case "map_ks":
			cur.SpecularTex = names.String(textureName(args))
		case "map_d":
			cur.AlphaTex = names.String(textureName(args))
		case "map_bump", "bump":
			cur.BumpTex = names.String(textureName(args))
		case "disp", "map_disp":
			cur.DisplacementTex = names.String(textureName(args))
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, keyword, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MTL: %w", err)
	}
	return mats, nil
}

// textureName strips texture options and returns the file name, which may
// contain spaces.
func textureName(args []string) string {
	i := 0
	for i < len(args) {
		n, ok := textureOptionArgs[args[i]]
		if !ok {
			break
		}
		i++
		// -o, -s and -t take one to three values.
		for j := 0; j < n && i < len(args); j++ {
			if j > 0 && !isNumber(args[i]) {
				break
			}
			i++
		}
	}
	return strings.Join(args[i:], " ")
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 32)
	return err == nil
}

func parseScalar(args []string) (float32, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing value")
	}
	f, err := strconv.ParseFloat(args[0], 32)
	return float32(f), err
}

func parseColor(args []string) ([3]float32, error) {
	var c [3]float32
	if len(args) < 3 {
		return c, fmt.Errorf("expected 3 values, got %d", len(args))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return c, err
		}
		c[i] = float32(f)
	}
	return c, nil
}
