// Package termdraw provides a grid of styled terminal cells.
package termdraw

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/termesc"
)

// A Style describes the appearance of a chunk of text.
//
// The zero Style means non-bold, non-underline text with the default colors
// for the output device.
type Style struct {
	Foreground, Background  *color.Color
	Bold, Italic, Underline bool
	Inverted                bool
}

// Equal reports whether s and t look the same, comparing colors by value.
func (s Style) Equal(t Style) bool {
	return color.Equal(s.Foreground, t.Foreground) && color.Equal(s.Background, t.Background) &&
		s.Bold == t.Bold && s.Italic == t.Italic && s.Underline == t.Underline && s.Inverted == t.Inverted
}

// A Cell represents a single character along with the style it should be displayed with.
// The zero Cell acts as an empty space.
type Cell struct {
	Content string
	Style   Style
}

// Point is a point in the coordinate system of a Canvas, in which X increases from left to right
// and Y from top to bottom.
type Point struct {
	X, Y int
}

// Canvas is an in-memory block of terminal cells, written out with Render.
type Canvas struct {
	width int
	cells []Cell
}

// NewCanvas creates a blank Canvas with the given dimensions.
func NewCanvas(size Point) *Canvas {
	return &Canvas{width: size.X, cells: make([]Cell, size.X*size.Y)}
}

// Size returns the current dimensions of the Canvas.
func (s *Canvas) Size() Point {
	if s.width == 0 {
		return Point{}
	}
	return Point{X: s.width, Y: len(s.cells) / s.width}
}

// Resize updates the dimensions of the Canvas, then clears it.
func (s *Canvas) Resize(size Point) {
	s.width = size.X
	n := size.X * size.Y
	if n < cap(s.cells) {
		s.cells = s.cells[:n]
		s.Clear()
	} else {
		s.cells = make([]Cell, n)
	}
}

// Clear sets all cells in the Canvas to blank spaces.
func (s *Canvas) Clear() {
	for i := range s.cells {
		s.cells[i] = Cell{}
	}
}

// Put replaces the content of the cell at position p. Points outside the Canvas are ignored.
func (s *Canvas) Put(p Point, c Cell) {
	if p.X < 0 || p.Y < 0 || p.X >= s.width || p.Y*s.width >= len(s.cells) {
		return
	}
	s.cells[p.Y*s.width+p.X] = c
}

// At returns the cell at position p.
func (s *Canvas) At(p Point) Cell { return s.cells[p.Y*s.width+p.X] }

// Render writes the contents of the Canvas to out, one line per row, with colors converted
// for the given terminal profile. Trailing blank cells are not written.
// The Ascii profile produces plain text without any escape codes.
func (s *Canvas) Render(out io.Writer, profile termenv.Profile) error {
	styleReset := termesc.SetGraphicAttributes(termesc.StyleNone)
	plain := profile == termenv.Ascii
	var buf []byte
	for i := 0; i < len(s.cells); i += s.width {
		buf = buf[:0]
		curStyle := Style{}
		row := trimTrailingBlanks(s.cells[i : i+s.width])
		for x := 0; x < len(row); x++ {
			c := row[x]
			if !plain && !c.Style.Equal(curStyle) {
				buf = append(buf, styleReset...)
				buf = append(buf, makeSGRString(profile, &c.Style)...)
				curStyle = c.Style
			}
			if c.Content == "" {
				c.Content = " "
			}
			if runewidth.StringWidth(c.Content) > 1 {
				x++ // skip next cell
			}
			buf = append(buf, c.Content...)
		}
		if !curStyle.Equal(Style{}) {
			buf = append(buf, styleReset...)
		}
		buf = append(buf, '\n')
		if _, err := out.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func trimTrailingBlanks(cs []Cell) []Cell {
	for i := len(cs) - 1; i >= 0; i-- {
		if cs[i].Content != "" || cs[i].Style.Background != nil || cs[i].Style.Inverted {
			return cs[:i+1]
		}
	}
	return cs[:0]
}

func makeSGRString(profile termenv.Profile, s *Style) string {
	var params []termesc.GraphicAttribute
	// Every style change starts with a reset, so only the flags that are on need sending.
	if fg := s.Foreground; fg != nil {
		params = append(params, termesc.OutputColor(profile, *fg))
	}
	if bg := s.Background; bg != nil {
		params = append(params, termesc.OutputColorBackground(profile, *bg))
	}
	if s.Bold {
		params = append(params, termesc.StyleBold)
	}
	if s.Italic {
		params = append(params, termesc.StyleItalic)
	}
	if s.Underline {
		params = append(params, termesc.StyleUnderline)
	}
	if s.Inverted {
		params = append(params, termesc.StyleInverted)
	}
	if len(params) == 0 {
		return ""
	}
	return termesc.SetGraphicAttributes(params...)
}
