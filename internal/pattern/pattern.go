// Package pattern provides the compiled patterns that token and span definitions match against.
//
// All offsets are measured in runes, which is also what the highlighting engine
// uses to address text.
package pattern

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// A Match is the location of a pattern occurrence in some text.
type Match struct {
	Index, Length int
}

// End returns the offset just past the end of the match.
func (m Match) End() int { return m.Index + m.Length }

// A Matcher finds occurrences of a pattern in text.
type Matcher interface {
	// FindAt returns the leftmost match that starts at or after the rune offset start.
	FindAt(text []rune, start int) (Match, bool)
	// Source returns the textual form of the pattern together with its options.
	// Matchers with the same Source are interchangeable.
	Source() string
}

// Options modify how a Pattern matches.
type Options uint8

const (
	IgnoreCase Options = 1 << iota
	Multiline
	Singleline
	IgnorePatternWhitespace
	ExplicitCapture
)

var optionFlags = []struct {
	opt  Options
	flag byte
	re   regexp2.RegexOptions
}{
	{IgnoreCase, 'i', regexp2.IgnoreCase},
	{Multiline, 'm', regexp2.Multiline},
	{Singleline, 's', regexp2.Singleline},
	{IgnorePatternWhitespace, 'x', regexp2.IgnorePatternWhitespace},
	{ExplicitCapture, 'n', regexp2.ExplicitCapture},
}

// String returns the options as a string of single-letter flags, like "im".
func (o Options) String() string {
	var sb strings.Builder
	for _, f := range optionFlags {
		if o&f.opt != 0 {
			sb.WriteByte(f.flag)
		}
	}
	return sb.String()
}

// ParseOptions converts a string of flags, as returned by Options.String, back to Options.
func ParseOptions(s string) (Options, error) {
	var o Options
next:
	for i := 0; i < len(s); i++ {
		for _, f := range optionFlags {
			if s[i] == f.flag {
				o |= f.opt
				continue next
			}
		}
		return 0, errors.Errorf("pattern: unknown option %q in %q", s[i], s)
	}
	return o, nil
}

func (o Options) regexpOptions() regexp2.RegexOptions {
	var ro regexp2.RegexOptions
	for _, f := range optionFlags {
		if o&f.opt != 0 {
			ro |= f.re
		}
	}
	return ro
}

// A Pattern is a compiled regular expression using .NET syntax.
// Patterns are immutable and may be shared between any number of definitions.
type Pattern struct {
	expr string
	opts Options
	re   *regexp2.Regexp
}

// Compile parses a regular expression and returns, if successful, a Pattern that
// can be used to match against text.
func Compile(expr string, opts Options) (*Pattern, error) {
	re, err := regexp2.Compile(expr, opts.regexpOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "pattern: compile %q", expr)
	}
	return &Pattern{expr: expr, opts: opts, re: re}, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It is meant for grammars built into the program.
func MustCompile(expr string, opts Options) *Pattern {
	p, err := Compile(expr, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text used to compile the pattern.
func (p *Pattern) String() string { return p.expr }

// Options returns the options the pattern was compiled with.
func (p *Pattern) Options() Options { return p.opts }

// Source returns the pattern in the form /expr/flags.
func (p *Pattern) Source() string { return "/" + p.expr + "/" + p.opts.String() }

// FindAt implements Matcher.
func (p *Pattern) FindAt(text []rune, start int) (Match, bool) {
	if start < 0 || start > len(text) {
		return Match{}, false
	}
	// The default match timeout never expires, so an error can't happen here.
	m, err := p.re.FindRunesMatchStartingAt(text, start)
	if err != nil || m == nil {
		return Match{}, false
	}
	return Match{Index: m.Index, Length: m.Length}, true
}

// IsNil reports whether m is nil, including a nil *Pattern stored in a Matcher.
func IsNil(m Matcher) bool {
	if m == nil {
		return true
	}
	p, ok := m.(*Pattern)
	return ok && p == nil
}

// Equal reports whether a and b are both nil or have the same source and options.
func Equal(a, b Matcher) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	return a.Source() == b.Source()
}
