package textlayout

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"github.com/dpinela/synlayout/internal/highlight"
)

// nextCharBoundary returns the length in bytes of the first user-perceived character of s.
func nextCharBoundary(s string) int {
	if len(s) == 0 {
		return 0
	}
	if len(s) == 1 || (s[0] < utf8.RuneSelf && s[1] < utf8.RuneSelf) {
		return 1
	}
	if n := norm.NFC.NextBoundaryInString(s, true); n > 0 {
		return n
	}
	_, n := utf8.DecodeRuneInString(s)
	return n
}

// appendClusters splits the text of r into clusters and appends them to cs.
func appendClusters(cs []Cluster, r highlight.Run) []Cluster {
	spacing := 0
	if r.Props.LetterSpacing > 0 {
		spacing = int(r.Props.LetterSpacing + 0.5)
	}
	pos := r.Start
	for s := r.Text; len(s) > 0; {
		n := nextCharBoundary(s)
		c := s[:n]
		s = s[n:]
		cl := Cluster{Text: c, Pos: pos, Len: utf8.RuneCountInString(c), Kind: r.Kind, Props: r.Props, spacing: spacing}
		first, _ := utf8.DecodeRuneInString(c)
		switch {
		case c == "\t":
			cl.tab = true
			cl.space = true
		case unicode.IsSpace(first):
			cl.Text = " "
			cl.advance = 1
			cl.space = true
		case n == 1 && c[0] < ' ':
			cl.Text = string('␀' + rune(c[0]))
			cl.advance = 1
		case c == "\x7f":
			cl.Text = "␡"
			cl.advance = 1
		default:
			cl.advance = runewidth.StringWidth(c)
		}
		pos += cl.Len
		cs = append(cs, cl)
	}
	return cs
}
