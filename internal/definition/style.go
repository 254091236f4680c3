package definition

import (
	"math"

	"github.com/dpinela/synlayout/internal/color"
)

// FontStyle selects the slant of a font. The zero value inherits it from the context.
type FontStyle uint8

const (
	FontStyleInherit FontStyle = iota
	FontStyleNormal
	FontStyleItalic
	FontStyleOblique
)

var fontStyleNames = [...]string{"inherit", "normal", "italic", "oblique"}

func (s FontStyle) String() string {
	if int(s) < len(fontStyleNames) {
		return fontStyleNames[s]
	}
	return "FontStyle(?)"
}

// ParseFontStyle converts a name returned by FontStyle.String back into a FontStyle.
// The empty string means FontStyleInherit.
func ParseFontStyle(s string) (FontStyle, bool) {
	if s == "" {
		return FontStyleInherit, true
	}
	for i, name := range fontStyleNames {
		if name == s {
			return FontStyle(i), true
		}
	}
	return FontStyleInherit, false
}

// FontWeight is a font weight on the usual 1-1000 scale. Zero inherits it from the context.
type FontWeight uint16

const (
	FontWeightInherit FontWeight = 0
	FontWeightThin    FontWeight = 100
	FontWeightLight   FontWeight = 300
	FontWeightNormal  FontWeight = 400
	FontWeightMedium  FontWeight = 500
	FontWeightBold    FontWeight = 700
	FontWeightBlack   FontWeight = 900
)

// Style holds the appearance overrides of a definition.
// Unset fields (nil, empty, zero or NaN) are inherited from the enclosing context.
type Style struct {
	Foreground *color.Color
	FontFamily string
	FontStyle  FontStyle
	FontWeight FontWeight
	FontSize   float64
}

// HasFontSize reports whether s overrides the font size.
func (s Style) HasFontSize() bool { return s.FontSize > 0 }

// Equal reports whether s and t describe the same overrides.
// Colors are compared by value, and any two unset font sizes are equal.
func (s Style) Equal(t Style) bool {
	return color.Equal(s.Foreground, t.Foreground) &&
		s.FontFamily == t.FontFamily &&
		s.FontStyle == t.FontStyle &&
		s.FontWeight == t.FontWeight &&
		sameSize(s.FontSize, t.FontSize)
}

func sameSize(a, b float64) bool {
	if !(a > 0) || !(b > 0) {
		return !(a > 0) && !(b > 0)
	}
	return a == b
}

// Inherit is the value of an unset font size.
var Inherit = math.NaN()
