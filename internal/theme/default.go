package theme

import (
	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/definition"
)

// Default returns the theme used when no other is configured. It only colors the names used
// by the built-in languages; text colors are left to the terminal.
func Default() *Theme {
	t := New("default")
	for name, hex := range map[string]string{
		"comment":              "#00c800",
		"string":               "#0000c8",
		"string.escape":        "#c86400",
		"string.interpolation": "#c86400",
		"regex":                "#0000c8",
		"number":               "#009696",
		"keyword":              "#c800c8",
		"operator":             "#c80000",
		"punctuation":          "#646464",
		"error":                "#ff0000",
	} {
		c := color.MustParse(hex)
		t.SetStyle(name, definition.Style{Foreground: &c})
	}
	bold := t.styles["keyword"]
	bold.FontWeight = definition.FontWeightBold
	t.SetStyle("keyword", bold)
	return t
}
