package termesc

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/dpinela/synlayout/internal/color"
)

type GraphicFlag int

// Constants for non-color graphic attributes.
const (
	StyleNone      GraphicFlag = 0
	StyleBold      GraphicFlag = 1
	StyleItalic    GraphicFlag = 3
	StyleUnderline GraphicFlag = 4
	StyleInverted  GraphicFlag = 7
)

// Constants for the 3-bit ANSI color palette.
const (
	ColorBlack GraphicFlag = 30 + iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

const (
	ColorDefault           GraphicFlag = 39
	ColorDefaultBackground GraphicFlag = 49
)

func (c GraphicFlag) sgrCodes() string { return strconv.Itoa(int(c)) }

// A GraphicAttribute is one or more SGR parameters.
type GraphicAttribute interface {
	sgrCodes() string
}

// SetGraphicAttributes returns a code that applies all of attrs. Attributes that produce no
// parameters, such as colors on a terminal without color support, are left out.
func SetGraphicAttributes(attrs ...GraphicAttribute) string {
	var b strings.Builder
	b.WriteString(csi)
	n := 0
	for _, attr := range attrs {
		code := attr.sgrCodes()
		if code == "" {
			continue
		}
		if n > 0 {
			b.WriteByte(';')
		}
		b.WriteString(code)
		n++
	}
	b.WriteByte('m')
	return b.String()
}

type outputColor struct {
	c          termenv.Color
	background bool
}

func (oc outputColor) sgrCodes() string { return oc.c.Sequence(oc.background) }

// OutputColor returns an attribute that sets the foreground color to c, approximated to what
// the terminal profile can show.
func OutputColor(p termenv.Profile, c color.Color) GraphicAttribute {
	return outputColor{c: p.Color(c.String())}
}

// OutputColorBackground is like OutputColor, but sets the background color.
func OutputColorBackground(p termenv.Profile, c color.Color) GraphicAttribute {
	return outputColor{c: p.Color(c.String()), background: true}
}
