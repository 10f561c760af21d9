package screencast

import (
	"fmt"
	"image/color"
)

// Color is a non-premultiplied 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// String returns the color as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Hex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Hex parses a color from a hex string.
// Supports formats: "RGB", "RRGGBB", "RRGGBBAA", with or without a leading '#'.
func Hex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var v [8]uint8
	for i := 0; i < len(s) && i < len(v); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return Color{}, fmt.Errorf("screencast: invalid hex color %q", hex)
		}
		v[i] = d
	}

	switch len(s) {
	case 3:
		return Color{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: 0xff}, nil
	case 6:
		return Color{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: 0xff}, nil
	case 8:
		return Color{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: v[6]<<4 | v[7]}, nil
	default:
		return Color{}, fmt.Errorf("screencast: invalid hex color %q", hex)
	}
}

// MustHex is like Hex but panics on malformed input. Intended for constants.
func MustHex(hex string) Color {
	c, err := Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Common colors
var (
	Black = Color{A: 0xff}
	White = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	// DefaultBackground is the chalkboard color of a fresh canvas.
	DefaultBackground = Color{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	// DefaultForeground is the initial brush color.
	DefaultForeground = White
)

// DefaultPalette is offered to the user when no palette is configured.
// The background color doubles as an eraser.
var DefaultPalette = []Color{
	White,
	MustHex("#fa5959"),
	MustHex("#8cfa59"),
	MustHex("#59a0fa"),
	MustHex("#fbff06"),
	DefaultBackground,
}

// BrushSize is the diameter of the brush in canvas pixels.
type BrushSize float64

// DefaultBrushSizes are offered to the user when no sizes are configured.
var DefaultBrushSizes = []BrushSize{2, 3, 4, 6, 8, 10, 15, 80}

// BrushBounds returns the smallest and largest of the given sizes.
// It returns (0, 0) for an empty slice.
func BrushBounds(sizes []BrushSize) (lo, hi BrushSize) {
	for i, s := range sizes {
		if i == 0 || s < lo {
			lo = s
		}
		if i == 0 || s > hi {
			hi = s
		}
	}
	return lo, hi
}
