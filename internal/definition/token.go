package definition

import "github.com/dpinela/synlayout/internal/pattern"

// A Token is an atomic lexical class, such as an escape sequence or a keyword.
// It is valid once its pattern is set.
type Token struct {
	definition
	pattern pattern.Matcher
}

// NewToken creates a token matching p. p may be nil, leaving the token invalid until
// SetPattern is called.
func NewToken(name string, p pattern.Matcher) *Token {
	t := &Token{}
	t.self = t
	t.name = name
	t.SetPattern(p)
	return t
}

// NewStyledToken is like NewToken, but also sets the token's style.
func NewStyledToken(name string, p pattern.Matcher, s Style) *Token {
	t := NewToken(name, p)
	t.SetStyle(s)
	return t
}

func (t *Token) Pattern() pattern.Matcher { return t.pattern }

// SetPattern changes the pattern matched by the token.
// Setting a pattern equal to the current one does nothing.
func (t *Token) SetPattern(p pattern.Matcher) {
	if pattern.IsNil(p) {
		p = nil
	}
	if pattern.Equal(p, t.pattern) {
		return
	}
	t.pattern = p
	t.patternChanged(PropPattern, p != nil)
}
