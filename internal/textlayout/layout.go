// Package textlayout lays out highlighted text on a grid of terminal cells.
//
// Formatter implements highlight.Formatter. Widths and heights are measured in cells, and
// all text positions are offsets in the laid-out text (see highlight.Run.Start); use
// highlight.RunIndex.SourceOffset to map them back into the highlighted text.
package textlayout

import (
	"io"

	"github.com/muesli/termenv"

	"github.com/dpinela/synlayout/internal/definition"
	"github.com/dpinela/synlayout/internal/highlight"
	"github.com/dpinela/synlayout/internal/termdraw"
)

// Ellipsis marks text cut off by trimming.
const Ellipsis = "…"

const defaultTabWidth = 4

// Formatter lays out runs in monospaced terminal cells.
type Formatter struct {
	// TabWidth is the distance between tab stops, in cells. Zero means 4.
	TabWidth int
}

var _ highlight.Formatter = Formatter{}

// A Cluster is one user-perceived character placed on a line.
type Cluster struct {
	Text  string // as displayed; control characters are replaced by their Unicode pictures
	Pos   int    // offset of the first rune in the laid-out text
	Len   int    // length in runes; zero for an inserted ellipsis
	X     int    // column relative to the start of the line
	Width int    // cells occupied, including letter spacing
	Kind  highlight.RunKind
	Props highlight.RunProperties

	advance int
	spacing int
	tab     bool
	space   bool
}

// A Line is one row of laid-out text.
type Line struct {
	Clusters []Cluster
	// Start and End delimit the text shown on the line. End does not include the line break.
	Start, End int
	// X is the column where the line begins after alignment.
	X int
	// Width is the width of the line's content, excluding trailing whitespace.
	Width int
	// Trimmed reports whether text was cut off the end of the line.
	Trimmed bool
}

// Layout is a laid-out paragraph. It is returned by Formatter.Format as a highlight.Layout.
type Layout struct {
	lines      []Line
	lineHeight int
}

func (f Formatter) Format(src highlight.RunSource, p highlight.Paragraph, defaults highlight.RunProperties) highlight.Layout {
	return f.Layout(src, p, defaults)
}

// Layout is like Format, but returns the concrete layout type.
func (f Formatter) Layout(src highlight.RunSource, p highlight.Paragraph, defaults highlight.RunProperties) *Layout {
	l := &Layout{lineHeight: 1}
	if p.LineHeight >= 1 {
		l.lineHeight = int(p.LineHeight + 0.5)
	}
	maxWidth := 0
	if p.MaxWidth > 0 {
		maxWidth = int(p.MaxWidth)
	}
	maxLines := max(p.MaxLines, 0)
	if p.MaxHeight > 0 {
		if n := max(1, int(p.MaxHeight)/l.lineHeight); maxLines == 0 || n < maxLines {
			maxLines = n
		}
	}
	wrapping := p.Wrapping
	if maxWidth == 0 {
		wrapping = highlight.NoWrap
	}

	for _, para := range paragraphs(src) {
		l.lines = append(l.lines, f.wrap(para, wrapping, maxWidth)...)
		if maxLines > 0 && len(l.lines) > maxLines {
			break
		}
	}
	if maxLines > 0 && len(l.lines) > maxLines {
		l.lines = l.lines[:maxLines]
		last := &l.lines[maxLines-1]
		last.Trimmed = true
		if p.Trimming != highlight.TrimNone {
			ellipsize(last, p.Trimming, maxWidth, defaults)
		}
	}
	if p.Trimming != highlight.TrimNone && maxWidth > 0 {
		for i := range l.lines {
			if line := &l.lines[i]; lineEnd(line.Clusters) > maxWidth {
				ellipsize(line, p.Trimming, maxWidth, defaults)
			}
		}
	}
	l.align(p, maxWidth)
	return l
}

type paragraph struct {
	start    int
	clusters []Cluster
}

// paragraphs splits the text of src at line breaks.
func paragraphs(src highlight.RunSource) []paragraph {
	var paras []paragraph
	cur := paragraph{}
	for pos := 0; pos < src.Len(); {
		r, ok := src.RunAt(pos)
		if !ok || r.End() <= pos {
			break
		}
		if r.Kind == highlight.RunLineBreak {
			for i := range r.Len() {
				paras = append(paras, cur)
				cur = paragraph{start: r.Start + i + 1}
			}
		} else {
			cur.clusters = appendClusters(cur.clusters, r)
		}
		pos = r.End()
	}
	return append(paras, cur)
}

func (f Formatter) tabWidth() int {
	if f.TabWidth > 0 {
		return f.TabWidth
	}
	return defaultTabWidth
}

// width returns the number of cells taken by cl when placed at column x.
func (f Formatter) width(cl *Cluster, x int) int {
	w := cl.advance
	if cl.tab {
		tw := f.tabWidth()
		w = tw - x%tw
	}
	return w + cl.spacing
}

// wrap breaks a paragraph into lines no wider than maxWidth, where the wrapping mode allows.
// Whitespace may hang past the limit; lines break after it.
func (f Formatter) wrap(p paragraph, mode highlight.Wrapping, maxWidth int) []Line {
	var (
		lines     []Line
		cur       []Cluster
		x         int
		lastBreak int
		start     = p.start
	)
	place := func(cl Cluster) {
		cl.X = x
		cl.Width = f.width(&cl, x)
		cur = append(cur, cl)
		x += cl.Width
		if cl.space {
			lastBreak = len(cur)
		}
	}
	flush := func(n int) {
		line := Line{Clusters: cur[:n:n], Start: start, End: start, Width: contentWidth(cur[:n])}
		if n > 0 {
			last := cur[n-1]
			line.End = last.Pos + last.Len
		}
		lines = append(lines, line)
		rest := cur[n:]
		start = line.End
		cur, x, lastBreak = nil, 0, 0
		for _, cl := range rest {
			place(cl)
		}
	}
	for i := 0; i < len(p.clusters); i++ {
		cl := p.clusters[i]
		if mode != highlight.NoWrap && len(cur) > 0 && !cl.space && x+f.width(&cl, x) > maxWidth {
			if lastBreak > 0 {
				flush(lastBreak)
				i--
				continue
			}
			if mode == highlight.Wrap {
				flush(len(cur))
				i--
				continue
			}
		}
		place(cl)
	}
	flush(len(cur))
	return lines
}

// contentWidth returns the width of cs without trailing whitespace.
func contentWidth(cs []Cluster) int {
	for i := len(cs) - 1; i >= 0; i-- {
		if !cs[i].space {
			return cs[i].X + cs[i].Width
		}
	}
	return 0
}

func lineEnd(cs []Cluster) int {
	if len(cs) == 0 {
		return 0
	}
	last := cs[len(cs)-1]
	return last.X + last.Width
}

// ellipsize cuts the end of line so that it fits in maxWidth cells together with an ellipsis,
// then appends the ellipsis. A maxWidth of zero means no limit.
func ellipsize(line *Line, mode highlight.Trimming, maxWidth int, defaults highlight.RunProperties) {
	cs := line.Clusters
	if maxWidth > 0 {
		for len(cs) > 0 && lineEnd(cs) > maxWidth-1 {
			cs = cs[:len(cs)-1]
		}
		dropped := line.Clusters[len(cs):]
		if mode == highlight.TrimWordEllipsis && len(dropped) > 0 && !dropped[0].space {
			for i := len(cs) - 1; i >= 0; i-- {
				if cs[i].space {
					cs = cs[:i]
					break
				}
			}
		}
	}
	for len(cs) > 0 && cs[len(cs)-1].space {
		cs = cs[:len(cs)-1]
	}
	ell := Cluster{Text: Ellipsis, Pos: line.Start, X: lineEnd(cs), Width: 1, Kind: highlight.RunText, Props: defaults, advance: 1}
	if len(cs) > 0 {
		last := cs[len(cs)-1]
		ell.Pos = last.Pos + last.Len
		ell.Props = last.Props
	} else if len(line.Clusters) > 0 {
		ell.Props = line.Clusters[0].Props
	}
	line.Clusters = append(cs[:len(cs):len(cs)], ell)
	line.End = ell.Pos
	line.Width = ell.X + ell.Width
	line.Trimmed = true
}

// align sets the starting column of every line. Justified text is aligned to the start
// edge; a terminal grid cannot stretch spaces by fractions of a cell.
func (l *Layout) align(p highlight.Paragraph, maxWidth int) {
	box := maxWidth
	if box == 0 {
		for _, line := range l.lines {
			box = max(box, line.Width)
		}
	}
	right := p.Alignment == highlight.AlignRight
	if p.FlowDirection == highlight.RightToLeft {
		right = p.Alignment == highlight.AlignLeft || p.Alignment == highlight.AlignJustify
	}
	for i := range l.lines {
		line := &l.lines[i]
		switch {
		case p.Alignment == highlight.AlignCenter:
			line.X = (box - line.Width) / 2
		case right:
			line.X = box - line.Width
		}
		line.X = max(line.X, 0)
	}
}

// Lines returns the laid-out lines. Callers should not modify the returned slice.
func (l *Layout) Lines() []Line { return l.lines }

// LineHeight returns the number of rows taken by each line.
func (l *Layout) LineHeight() int { return l.lineHeight }

// Size returns the width and height of the text, in cells.
func (l *Layout) Size() (width, height float64) {
	w := 0
	for _, line := range l.lines {
		w = max(w, line.X+line.Width)
	}
	return float64(w), float64(len(l.lines) * l.lineHeight)
}

// A Hit is the result of hit-testing a layout.
type Hit struct {
	Pos, Len int  // the character under the point
	Trailing bool // the point is over the second half of the character
	Inside   bool // the point is over the text
}

// Caret returns the caret position closest to the point that was hit.
func (h Hit) Caret() int {
	if h.Trailing {
		return h.Pos + h.Len
	}
	return h.Pos
}

// HitTest finds the character displayed at cell (x, y). Points outside the text map to the
// closest character.
func (l *Layout) HitTest(x, y int) Hit {
	inside := y >= 0
	row := max(y, 0) / l.lineHeight
	if row >= len(l.lines) {
		row = len(l.lines) - 1
		inside = false
	}
	line := l.lines[row]
	x -= line.X
	for _, cl := range line.Clusters {
		if x < cl.X {
			return Hit{Pos: cl.Pos, Len: cl.Len}
		}
		if x < cl.X+cl.Width {
			return Hit{Pos: cl.Pos, Len: cl.Len, Trailing: 2*(x-cl.X) >= cl.Width, Inside: inside}
		}
	}
	return Hit{Pos: line.End}
}

// CaretPos returns the cell where a caret at offset pos is drawn. A caret at a wrap point is
// drawn at the start of the following line.
func (l *Layout) CaretPos(pos int) (x, y int) {
	row := 0
	for i, line := range l.lines {
		if line.Start > pos {
			break
		}
		row = i
	}
	line := l.lines[row]
	for _, cl := range line.Clusters {
		if cl.Len > 0 && pos >= cl.Pos && pos < cl.Pos+cl.Len {
			return line.X + cl.X, row * l.lineHeight
		}
	}
	if pos <= line.Start {
		return line.X, row * l.lineHeight
	}
	return line.X + lineEnd(line.Clusters), row * l.lineHeight
}

// Draw paints the layout onto c with its top-left corner at origin.
func (l *Layout) Draw(c *termdraw.Canvas, origin termdraw.Point) {
	size := c.Size()
	for i, line := range l.lines {
		y := origin.Y + i*l.lineHeight
		var prev termdraw.Point
		havePrev := false
		for _, cl := range line.Clusters {
			p := termdraw.Point{X: origin.X + line.X + cl.X, Y: y}
			style := cellStyle(cl.Props)
			if cl.Width == 0 {
				// Zero-width characters join the one before.
				if havePrev {
					cell := c.At(prev)
					cell.Content += cl.Text
					c.Put(prev, cell)
				}
				continue
			}
			glyph := cl.Width - cl.spacing
			content := cl.Text
			if cl.space {
				// Blank, so that trailing whitespace is not written out.
				content = ""
			}
			c.Put(p, termdraw.Cell{Content: content, Style: style})
			for j := 1; j < cl.Width; j++ {
				if j >= glyph || cl.tab {
					c.Put(termdraw.Point{X: p.X + j, Y: y}, termdraw.Cell{Style: style})
				}
			}
			havePrev = p.X >= 0 && p.Y >= 0 && p.X < size.X && p.Y < size.Y
			prev = p
		}
	}
}

func cellStyle(p highlight.RunProperties) termdraw.Style {
	fg := p.Foreground
	return termdraw.Style{
		Foreground: &fg,
		Background: p.Background,
		Bold:       p.FontWeight >= 600,
		Italic:     p.FontStyle == definition.FontStyleItalic || p.FontStyle == definition.FontStyleOblique,
		Underline:  p.Underline,
	}
}

// Render writes the layout to w as ANSI text, converting colors for the terminal profile.
func (l *Layout) Render(w io.Writer, profile termenv.Profile) error {
	width := 1
	for _, line := range l.lines {
		width = max(width, line.X+lineEnd(line.Clusters))
	}
	c := termdraw.NewCanvas(termdraw.Point{X: width, Y: len(l.lines) * l.lineHeight})
	l.Draw(c, termdraw.Point{})
	return c.Render(w, profile)
}
