// Package theme supplies colors, fonts and styles by symbolic name.
//
// A Theme serves as the highlight.Resources of a Highlighter, and lets definition files
// refer to colors indirectly ("@comment") so the same grammar can be shown in any theme.
package theme

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/pkg/errors"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/definition"
	"github.com/dpinela/synlayout/internal/highlight"
)

// A Font is a font family and size. Either may be unset.
type Font struct {
	Family string
	Size   float64
}

// A Theme maps symbolic names to appearance resources.
// The zero Theme is not usable; create one with New or FromChroma.
type Theme struct {
	Name   string
	colors map[string]color.Color
	fonts  map[string]Font
	styles map[string]definition.Style
}

// New creates an empty theme.
func New(name string) *Theme {
	return &Theme{
		Name:   name,
		colors: make(map[string]color.Color),
		fonts:  make(map[string]Font),
		styles: make(map[string]definition.Style),
	}
}

func (t *Theme) SetColor(name string, c color.Color) { t.colors[name] = c }
func (t *Theme) SetFont(name string, f Font)         { t.fonts[name] = f }

// SetStyle associates a definition style with name. If the style has a foreground, it also
// becomes the color of name unless one was set explicitly.
func (t *Theme) SetStyle(name string, s definition.Style) { t.styles[name] = s }

// Color returns the color named name, looking at explicit colors first and style foregrounds
// second.
func (t *Theme) Color(name string) (color.Color, bool) {
	if c, ok := t.colors[name]; ok {
		return c, true
	}
	if s, ok := t.styles[name]; ok && s.Foreground != nil {
		return *s.Foreground, true
	}
	return color.Color{}, false
}

func (t *Theme) Font(name string) (string, float64, bool) {
	f, ok := t.fonts[name]
	return f.Family, f.Size, ok
}

// Style returns the definition style named name. Names that only have a color yield a style
// with just that foreground.
func (t *Theme) Style(name string) (definition.Style, bool) {
	if s, ok := t.styles[name]; ok {
		if c, ok := t.colors[name]; ok {
			s.Foreground = &c
		}
		return s, true
	}
	if c, ok := t.colors[name]; ok {
		return definition.Style{Foreground: &c}, true
	}
	return definition.Style{}, false
}

// Names returns every name the theme defines, sorted.
func (t *Theme) Names() []string {
	seen := make(map[string]bool)
	for n := range t.colors {
		seen[n] = true
	}
	for n := range t.fonts {
		seen[n] = true
	}
	for n := range t.styles {
		seen[n] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve interprets a color reference: either "@name", looked up in the theme, or a hex
// color code.
func (t *Theme) Resolve(ref string) (color.Color, error) {
	if name := strings.TrimPrefix(ref, "@"); len(name) != len(ref) {
		if c, ok := t.Color(name); ok {
			return c, nil
		}
		return color.Color{}, errors.Errorf("theme %s: no color named %q", t.Name, name)
	}
	return color.Parse(ref)
}

var _ highlight.Resources = (*Theme)(nil)

// chromaNames maps the symbolic names used by definition files to chroma token types.
var chromaNames = map[string]chroma.TokenType{
	"comment":              chroma.Comment,
	"string":               chroma.LiteralString,
	"string.escape":        chroma.LiteralStringEscape,
	"string.interpolation": chroma.LiteralStringInterpol,
	"regex":                chroma.LiteralStringRegex,
	"number":               chroma.LiteralNumber,
	"keyword":              chroma.Keyword,
	"operator":             chroma.Operator,
	"punctuation":          chroma.Punctuation,
	"name":                 chroma.Name,
	"name.class":           chroma.NameClass,
	"name.function":        chroma.NameFunction,
	"builtin":              chroma.NameBuiltin,
	"error":                chroma.Error,
}

// ChromaStyles returns the names of the styles FromChroma accepts.
func ChromaStyles() []string { return styles.Names() }

// FromChroma builds a theme from one of the chroma syntax highlighting styles, such as
// "monokai" or "github".
func FromChroma(name string) (*Theme, error) {
	st, ok := styles.Registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("theme: unknown chroma style %q", name)
	}
	t := New(st.Name)
	if e := st.Get(chroma.Text); e.Colour.IsSet() {
		t.SetColor(highlight.ResourceForeground, fromChroma(e.Colour))
	}
	if e := st.Get(chroma.Background); e.Background.IsSet() {
		bg := fromChroma(e.Background)
		t.SetColor(highlight.ResourceBackground, bg)
		// Selected text is shown inverted.
		t.SetColor(highlight.ResourceSelectionForeground, bg)
	}
	for name, tt := range chromaNames {
		e := st.Get(tt)
		var s definition.Style
		if e.Colour.IsSet() {
			c := fromChroma(e.Colour)
			s.Foreground = &c
		}
		if e.Bold == chroma.Yes {
			s.FontWeight = definition.FontWeightBold
		}
		if e.Italic == chroma.Yes {
			s.FontStyle = definition.FontStyleItalic
		}
		t.SetStyle(name, s)
	}
	return t, nil
}

func fromChroma(c chroma.Colour) color.Color {
	return color.Color{R: c.Red(), G: c.Green(), B: c.Blue()}
}
