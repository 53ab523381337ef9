// Package position converts pixel coordinates between the resolution a
// playthrough was recorded at and the resolution it is replayed at.
package position

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Resolution is a display size in pixels.
type Resolution struct {
	W int
	H int
}

// String renders the resolution in the "WxH" form used by filenames and the stats ledger.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.W, r.H)
}

// IsZero reports whether the resolution is unset.
func (r Resolution) IsZero() bool {
	return r.W == 0 && r.H == 0
}

// MarshalText renders the resolution as "WxH" in JSON and YAML.
func (r Resolution) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText reads a "WxH" resolution.
func (r *Resolution) UnmarshalText(b []byte) error {
	parsed, err := ParseResolution(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResolution reads a "WxH" string.
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("invalid resolution %q: expected WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution height %q: %w", h, err)
	}
	if width <= 0 || height <= 0 {
		return Resolution{}, fmt.Errorf("invalid resolution %q: dimensions must be positive", s)
	}
	return Resolution{W: width, H: height}, nil
}

// Point is a pixel position.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// String renders the point the way instruction files write positions.
func (p Point) String() string {
	return fmt.Sprintf("%d, %d", p.X, p.Y)
}

// Scale maps p from one resolution to another, each axis independently.
// Halves round to even, which is what the recording tooling has always done.
func (p Point) Scale(from, to Resolution) Point {
	if from == to || from.W == 0 || from.H == 0 {
		return p
	}
	return Point{
		X: int(math.RoundToEven(float64(p.X) * float64(to.W) / float64(from.W))),
		Y: int(math.RoundToEven(float64(p.Y) * float64(to.H) / float64(from.H))),
	}
}

var pairPattern = regexp.MustCompile(`(\d+), (\d+)`)

// RescaleString rewrites every literal "x, y" pair in text from one
// resolution to another.
func RescaleString(text string, from, to Resolution) string {
	if from == to {
		return text
	}
	return pairPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := pairPattern.FindStringSubmatch(match)
		x, errX := strconv.Atoi(parts[1])
		y, errY := strconv.Atoi(parts[2])
		if errX != nil || errY != nil {
			return match
		}
		return Point{X: x, Y: y}.Scale(from, to).String()
	})
}
