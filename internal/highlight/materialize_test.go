package highlight

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/definition"
	"github.com/dpinela/synlayout/internal/pattern"
)

var (
	black = color.Color{}
	white = color.Color{R: 255, G: 255, B: 255}
	red   = color.Color{R: 200}
	green = color.Color{G: 200}
	blue  = color.Color{B: 200}
)

func pat(expr string) *pattern.Pattern { return pattern.MustCompile(expr, 0) }

func fg(c color.Color) definition.Style { return definition.Style{Foreground: &c} }

func span(start, end string, c color.Color, tokens ...*definition.Token) *definition.Span {
	sp := definition.NewSpan(start+end, pat(start), pat(end), tokens...)
	sp.SetStyle(fg(c))
	return sp
}

func token(expr string, c color.Color) *definition.Token {
	return definition.NewStyledToken(expr, pat(expr), fg(c))
}

func set(spans []*definition.Span, tokens ...*definition.Token) *definition.Set {
	s := definition.NewSet("test")
	s.AddSpan(spans...)
	s.AddToken(tokens...)
	return s
}

// piece is the part of a run that the tests care about.
type piece struct {
	Text string
	Fg   color.Color
	Kind RunKind
}

func (p piece) String() string { return fmt.Sprintf("{%q %v %v}", p.Text, p.Fg, p.Kind) }

func pieces(runs []Run) []piece {
	ps := make([]piece, len(runs))
	for i, r := range runs {
		ps[i] = piece{r.Text, r.Props.Foreground, r.Kind}
	}
	return ps
}

func text(s string, c color.Color) piece { return piece{s, c, RunText} }

func formatPieces(ps []piece) string {
	var sb strings.Builder
	for _, p := range ps {
		fmt.Fprintln(&sb, p)
	}
	return sb.String()
}

type runTest struct {
	name     string
	defs     *definition.Set
	text     string
	sel      [2]int
	preedit  string
	expected []piece
}

var runTests = []runTest{
	{
		name: "SpanWithoutTokens",
		defs: set([]*definition.Span{span(`\[`, `\]`, red)}),
		text: "a[bc]d",
		expected: []piece{
			text("a", black), text("[", red), text("bc", red), text("]", red), text("d", black),
		},
	},
	{
		name:     "DanglingSpan",
		defs:     set([]*definition.Span{span(`\[`, `\]`, red)}),
		text:     "a[bc",
		expected: []piece{text("a[bc", black)},
	},
	{
		name: "EarlierStartWins",
		defs: set([]*definition.Span{span(`<`, `>`, green), span(`\(`, `\)`, blue)}),
		text: "x(a<b)c>d",
		expected: []piece{
			text("x", black), text("(", blue), text("a<b", blue), text(")", blue), text("c>d", black),
		},
	},
	{
		name: "EqualMatchesDeclarationOrder",
		defs: set([]*definition.Span{span(`'`, `'`, green), span(`'`, `'`, blue)}),
		text: "x'y'z",
		expected: []piece{
			text("x", black), text("'", green), text("y", green), text("'", green), text("z", black),
		},
	},
	{
		name: "EqualStartShorterWins",
		defs: set([]*definition.Span{span(`\{`, `\}\}`, green), span(`\{`, `\}`, blue)}),
		text: "{a}}",
		expected: []piece{
			text("{", blue), text("a", blue), text("}", blue), text("}", black),
		},
	},
	{
		name: "OverlappedSpanKeepsScanning",
		defs: set([]*definition.Span{span(`\(`, `\)`, blue), span(`<`, `>`, green)}),
		text: "(<)<>",
		expected: []piece{
			text("(", blue), text("<", blue), text(")", blue), text("<", green), text(">", green),
		},
	},
	{
		name: "RepeatedSpans",
		defs: set([]*definition.Span{span(`\[`, `\]`, red)}),
		text: "[a][b]",
		expected: []piece{
			text("[", red), text("a", red), text("]", red), text("[", red), text("b", red), text("]", red),
		},
	},
	{
		name: "SpanTokensOnlyInside",
		defs: set([]*definition.Span{span(`"`, `(?<!\\)"`, red, token(`\\.`, blue))}, token(`\d`, green)),
		text: `1"a\"2"3`,
		expected: []piece{
			text("1", green), text(`"`, red), text("a", red), text(`\"`, blue), text("2", red),
			text(`"`, red), text("3", green),
		},
	},
	{
		name:     "AdjacentTokensCoalesce",
		defs:     set(nil, token(`\\.`, blue)),
		text:     `a\n\tb`,
		expected: []piece{text("a", black), text(`\n\t`, blue), text("b", black)},
	},
	{
		name:     "DifferentTokensDoNotCoalesce",
		defs:     set(nil, token(`\\.`, blue), token(`\d`, green)),
		text:     `\n5`,
		expected: []piece{text(`\n`, blue), text("5", green)},
	},
	{
		name:     "OverlappedTokenKeepsScanning",
		defs:     set(nil, token(`ab`, blue), token(`bc`, green)),
		text:     "abcbc",
		expected: []piece{text("ab", blue), text("c", black), text("bc", green)},
	},
	{
		name:     "EmptyMatches",
		defs:     set([]*definition.Span{span(`x*`, `y*`, red)}, token(`z*`, blue)),
		text:     "abc",
		expected: []piece{text("abc", black)},
	},
	{
		name:     "Selection",
		text:     "HelloWorld",
		sel:      [2]int{5, 2},
		expected: []piece{text("He", black), text("llo", white), text("World", black)},
	},
	{
		name:     "SelectionInsideToken",
		defs:     set(nil, token(`\w+`, blue)),
		text:     "HelloWorld",
		sel:      [2]int{2, 5},
		expected: []piece{text("He", blue), text("llo", white), text("World", blue)},
	},
	{
		name:     "LineBreak",
		text:     "ab\ncd",
		expected: []piece{text("ab", black), {"\n", black, RunLineBreak}, text("cd", black)},
	},
	{
		name:     "CarriageReturnDropped",
		text:     "ab\rcd",
		expected: []piece{text("ab", black), text("cd", black)},
	},
	{
		name:     "BackspaceDropped",
		text:     "a\bb",
		expected: []piece{text("a", black), text("b", black)},
	},
	{
		name: "LineBreakInsideToken",
		defs: set(nil, token(`b\nc`, blue)),
		text: "ab\ncd",
		expected: []piece{
			text("a", black), text("b", blue), {"\n", black, RunLineBreak}, text("c", blue), text("d", black),
		},
	},
	{
		name:     "Preedit",
		text:     "abcd",
		sel:      [2]int{2, 2},
		preedit:  "xy",
		expected: []piece{text("ab", black), {"xy", black, RunPreedit}, text("cd", black)},
	},
	{
		name:    "PreeditAtRunBoundary",
		defs:    set([]*definition.Span{span(`\[`, `\]`, red)}),
		text:    "a[b]",
		sel:     [2]int{1, 1},
		preedit: "xy",
		expected: []piece{
			text("a", black), {"xy", black, RunPreedit}, text("[", red), text("b", red), text("]", red),
		},
	},
	{
		name:     "PreeditAtEnd",
		text:     "ab",
		sel:      [2]int{2, 2},
		preedit:  "x",
		expected: []piece{text("ab", black), {"x", black, RunPreedit}},
	},
	{
		name:     "PreeditInEmptyText",
		preedit:  "ime",
		expected: []piece{{"ime", black, RunPreedit}},
	},
	{
		name: "Empty",
	},
}

func materializeTest(tt runTest) []Run {
	h := New(&fakeFormatter{}, WithResources(testResources{}))
	h.SetText(tt.text)
	h.SetSelection(tt.sel[0], tt.sel[1])
	h.SetPreedit(tt.preedit, -1)
	h.SetDefinitions(tt.defs)
	return h.Runs()
}

func TestRuns(t *testing.T) {
	for _, tt := range runTests {
		t.Run(tt.name, func(t *testing.T) {
			got := pieces(materializeTest(tt))
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got:\n%s\nwant:\n%s", formatPieces(got), formatPieces(tt.expected))
			}
		})
	}
}

func TestRunOffsets(t *testing.T) {
	h := New(&fakeFormatter{})
	h.SetText("ab\r\ncd")
	h.SetSelection(5, 5)
	h.SetPreedit("XY", -1)
	type offsets struct {
		Text          string
		Start, Source int
	}
	var got []offsets
	for _, r := range h.Runs() {
		got = append(got, offsets{r.Text, r.Start, r.Source})
	}
	want := []offsets{{"ab", 0, 0}, {"\n", 2, 3}, {"c", 3, 4}, {"XY", 4, 5}, {"d", 6, 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestPreeditIsUnderlined(t *testing.T) {
	h := New(&fakeFormatter{})
	h.SetText("abc")
	h.SetPreedit("x", 1)
	runs := h.Runs()
	if len(runs) != 3 || runs[1].Kind != RunPreedit || !runs[1].Props.Underline {
		t.Fatalf("got runs %+v, want an underlined preedit run in the middle", runs)
	}
	if runs[0].Props.Underline || runs[2].Props.Underline {
		t.Error("text runs around the preedit run are underlined")
	}
}

func TestInvalidTokenIsIgnored(t *testing.T) {
	const text = `a\nb 12`
	with := set(nil, token(`\d+`, green), definition.NewToken("pending", nil))
	without := set(nil, token(`\d+`, green))
	a := pieces(materializeTest(runTest{defs: with, text: text}))
	b := pieces(materializeTest(runTest{defs: without, text: text}))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("invalid token changed the output:\n%s\nversus:\n%s", formatPieces(a), formatPieces(b))
	}
}

func TestSpanStyleLayering(t *testing.T) {
	sp := definition.NewSpan("comment", pat(`/\*`), pat(`\*/`), definition.NewStyledToken("todo", pat("TODO"), definition.Style{FontWeight: definition.FontWeightBold}))
	sp.SetStyle(definition.Style{Foreground: &green, FontStyle: definition.FontStyleItalic})
	h := New(&fakeFormatter{})
	h.SetDefinitions(set([]*definition.Span{sp}))
	h.SetText("/* TODO */")
	for _, r := range h.Runs() {
		if r.Props.FontStyle != definition.FontStyleItalic || r.Props.Foreground != green {
			t.Errorf("run %q: got %+v, want span style", r.Text, r.Props)
		}
		if want := r.Text == "TODO"; (r.Props.FontWeight == definition.FontWeightBold) != want {
			t.Errorf("run %q: got weight %v", r.Text, r.Props.FontWeight)
		}
	}
}
