// Package color defines the RGB colors used for foreground and background brushes.
package color

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// A Color is a 8-bit-per-channel RGB color.
type Color struct {
	R, G, B uint8
}

// String returns the hex color code for c.
func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Parse returns the RGB values corresponding to the color described by s.
// The string may be a CSS-style hex code, in long (#ABCDEF) or short (#ACE) form.
func Parse(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' || (len(s) != 7 && len(s) != 4) {
		return Color{}, fmt.Errorf("color: parse %q: not a valid hex string", s)
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, errors.WithMessage(err, fmt.Sprintf("color: parse %q", s))
	}
	if len(s) == 4 {
		// Each digit is doubled: #ACE means #AACCEE.
		r, g, b := uint8(n>>8&0xF), uint8(n>>4&0xF), uint8(n&0xF)
		return Color{r<<4 | r, g<<4 | g, b<<4 | b}, nil
	}
	return Color{uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}

// MustParse is like Parse, but panics if s is not a valid color.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Equal reports whether a and b are both nil or point to the same color value.
func Equal(a, b *Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) (err error) {
	in, err := Parse(string(b))
	if err == nil {
		*c = in
	}
	return
}
