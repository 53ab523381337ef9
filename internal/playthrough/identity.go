// Package playthrough turns instruction files into priced, typed action scripts.
package playthrough

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/parser"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
)

// Extension is the suffix of every instruction file.
const Extension = ".btd6"

// ErrNotStrategyFile is returned for filenames that do not follow the instruction file naming scheme.
var ErrNotStrategyFile = errors.New("not a strategy file")

var fileNameParser = parser.BuildFileName()

// Flags are the boolean properties a strategy declares in its filename.
type Flags struct {
	NoMK            bool   `json:"noMK"`
	SingleGroup     string `json:"singleGroup,omitempty"`
	NoLL            bool   `json:"noLL"`
	NoLLwMK         bool   `json:"noLLwMK"`
	GlitchlessBuild bool   `json:"gB"`
}

// Has reports whether a flag token ("noMK", "noLL", "noLLwMK", "gB" or
// "<group>Only") is set.
func (f Flags) Has(token string) bool {
	switch token {
	case "noMK":
		return f.NoMK
	case "noLL":
		return f.NoLL
	case "noLLwMK":
		return f.NoLLwMK
	case "gB":
		return f.GlitchlessBuild
	}
	if group, ok := strings.CutSuffix(token, "Only"); ok && group != "" {
		return f.SingleGroup == group
	}
	return false
}

// tokens lists the set flags in canonical order.
func (f Flags) tokens() []string {
	var out []string
	if f.NoMK {
		out = append(out, "noMK")
	}
	if f.SingleGroup != "" {
		out = append(out, f.SingleGroup+"Only")
	}
	if f.NoLL {
		out = append(out, "noLL")
	}
	if f.NoLLwMK {
		out = append(out, "noLLwMK")
	}
	if f.GlitchlessBuild {
		out = append(out, "gB")
	}
	return out
}

// Identity is what a strategy filename says about the strategy.
type Identity struct {
	Map        string              `json:"map"`
	Gamemode   string              `json:"gamemode"`
	Resolution position.Resolution `json:"resolution"`
	Flags      Flags               `json:"flags"`
}

// Decode reads an identity from an instruction filename. Any directory
// prefix is ignored.
func Decode(filename string) (Identity, error) {
	base := filepath.Base(filepath.ToSlash(filename))
	fn, err := fileNameParser.ParseString("", base)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s", ErrNotStrategyFile, filename)
	}

	res, err := position.ParseResolution(fn.Resolution)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s: %v", ErrNotStrategyFile, filename, err)
	}

	return Identity{
		Map:        fn.Map,
		Gamemode:   fn.Gamemode,
		Resolution: res,
		Flags:      decodeFlags(strings.Join(fn.Flags, "")),
	}, nil
}

// decodeFlags scans the '#'-separated flag segment. Anything that is not a
// known token is free text and ignored.
func decodeFlags(segment string) Flags {
	var f Flags
	for _, tok := range strings.Split(segment, "#") {
		switch tok {
		case "noMK":
			f.NoMK = true
		case "noLL":
			f.NoLL = true
		case "noLLwMK":
			f.NoLLwMK = true
		case "gB":
			f.GlitchlessBuild = true
		default:
			if group, ok := strings.CutSuffix(tok, "Only"); ok && isLowerWord(group) {
				f.SingleGroup = group
			}
		}
	}
	return f
}

func isLowerWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Encode renders the canonical base filename for the identity.
func (id Identity) Encode() string {
	var b strings.Builder
	b.WriteString(id.Map)
	b.WriteByte('#')
	b.WriteString(id.Gamemode)
	b.WriteByte('#')
	b.WriteString(id.Resolution.String())
	if tokens := id.Flags.tokens(); len(tokens) > 0 {
		b.WriteByte('#')
		b.WriteString(strings.Join(tokens, "#"))
	}
	b.WriteString(Extension)
	return b.String()
}

// Filename joins the encoded name onto dir.
func (id Identity) Filename(dir string) string {
	if dir == "" {
		return id.Encode()
	}
	return filepath.Join(dir, id.Encode())
}

// WithResolution returns a copy of the identity recorded at another resolution.
func (id Identity) WithResolution(r position.Resolution) Identity {
	id.Resolution = r
	return id
}
