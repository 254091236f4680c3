package highlight

import (
	"unicode/utf8"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/definition"
)

// FontStretch is the width of a font face, on the usual 1-9 scale. Zero inherits it.
type FontStretch uint8

const (
	FontStretchInherit FontStretch = iota
	FontStretchUltraCondensed
	FontStretchExtraCondensed
	FontStretchCondensed
	FontStretchSemiCondensed
	FontStretchNormal
	FontStretchSemiExpanded
	FontStretchExpanded
	FontStretchExtraExpanded
	FontStretchUltraExpanded
)

// RunProperties is the fully resolved appearance of a run of text.
type RunProperties struct {
	FontFamily    string
	FontSize      float64
	FontStretch   FontStretch
	FontStyle     definition.FontStyle
	FontWeight    definition.FontWeight
	Foreground    color.Color
	Background    *color.Color `json:",omitempty" yaml:",omitempty"`
	Underline     bool
	LetterSpacing float64
}

// With returns p overridden by the fields set in s.
func (p RunProperties) With(s definition.Style) RunProperties {
	if s.Foreground != nil {
		p.Foreground = *s.Foreground
	}
	if s.FontFamily != "" {
		p.FontFamily = s.FontFamily
	}
	if s.FontStyle != definition.FontStyleInherit {
		p.FontStyle = s.FontStyle
	}
	if s.FontWeight != definition.FontWeightInherit {
		p.FontWeight = s.FontWeight
	}
	if s.HasFontSize() {
		p.FontSize = s.FontSize
	}
	return p
}

// RunKind tells apart ordinary text from the special runs inserted by the highlighter.
type RunKind uint8

const (
	RunText      RunKind = iota
	RunLineBreak         // a single "\n"
	RunPreedit           // composition text that is not part of the highlighted text
)

var runKindNames = [...]string{"text", "linebreak", "preedit"}

func (k RunKind) String() string {
	if int(k) < len(runKindNames) {
		return runKindNames[k]
	}
	return "RunKind(?)"
}

func (k RunKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// A Run is a contiguous piece of text displayed with a single set of properties.
type Run struct {
	Text string
	// Start is the offset of the run within the laid-out text, which is the concatenation
	// of all runs' Text, in runes.
	Start int
	// Source is the offset of the run within the highlighted text, in runes.
	// For preedit runs it is the insertion point.
	Source int
	Kind   RunKind
	Props  RunProperties
}

// Len returns the length of the run in runes.
func (r Run) Len() int { return utf8.RuneCountInString(r.Text) }

// End returns the offset just past the run within the laid-out text.
func (r Run) End() int { return r.Start + r.Len() }

// SourceEnd returns the offset just past the run within the highlighted text.
func (r Run) SourceEnd() int {
	if r.Kind == RunPreedit {
		return r.Source
	}
	return r.Source + r.Len()
}

// split cuts r into two runs, the first of which holds its first n runes.
func (r Run) split(n int) (Run, Run) {
	text := []rune(r.Text)
	head, tail := r, r
	head.Text = string(text[:n])
	tail.Text = string(text[n:])
	tail.Start += n
	if r.Kind != RunPreedit {
		tail.Source += n
	}
	return head, tail
}
