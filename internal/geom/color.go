package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit sRGB colour with straight (non-premultiplied) alpha.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// Hex parses "#rgb" or "#rrggbb" into an opaque colour.
func Hex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// MustHex is Hex for package-level constants.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor accepts the CSS forms the engine emits: #hex, rgb(r, g, b) and
// rgba(r, g, b, a) with a in [0, 1].
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return Hex(s)
	case strings.HasPrefix(s, "rgba("):
		var r, g, b int
		var a float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
			return Color{}, fmt.Errorf("parse rgba color %q: %w", s, err)
		}
		return Color{R: channel(r), G: channel(g), B: channel(b), A: uint8(math.Round(Clamp01(a) * 255))}, nil
	case strings.HasPrefix(s, "rgb("):
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("parse rgb color %q: %w", s, err)
		}
		return RGB(channel(r), channel(g), channel(b)), nil
	default:
		return Color{}, fmt.Errorf("unsupported color %q", s)
	}
}

func channel(v int) uint8 {
	return uint8(Clamp(float64(v), 0, 255))
}

// LerpColor interpolates each channel and rounds it. Like Lerp, t is not
// clamped here.
func LerpColor(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(Clamp(math.Round(Lerp(float64(x), float64(y), t)), 0, 255))
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Colorful converts to go-colorful's float representation (alpha dropped).
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex formats the colour as #rrggbb, ignoring alpha.
func (c Color) Hex() string { return c.Colorful().Hex() }

// String returns the CSS form: rgb(r, g, b) or rgba(r, g, b, a).
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.3g)", c.R, c.G, c.B, float64(c.A)/255)
}

// RGBA implements image/color.Color with premultiplied alpha.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xffff
	g = uint32(c.G) * 0x101 * a / 0xffff
	b = uint32(c.B) * 0x101 * a / 0xffff
	return r, g, b, a
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
