package definition

import "github.com/dpinela/synlayout/internal/pattern"

// A Span is a region of text bounded by a start and an end delimiter, such as a quoted
// string or a character class. The interior of a span is tokenized only with the span's own
// tokens.
//
// A span is valid once both its start and end patterns are set.
type Span struct {
	definition
	start, end pattern.Matcher
	tokens     ownedList[*Token]
}

// NewSpan creates a span delimited by start and end, containing the given tokens.
// It panics if any of the tokens already belongs to a span or set.
func NewSpan(name string, start, end pattern.Matcher, tokens ...*Token) *Span {
	s := &Span{}
	s.self = s
	s.name = name
	s.tokens = ownedList[*Token]{owner: s, notify: s.tokenChanged, changed: func() { s.changed(PropTokens) }}
	s.SetStartPattern(start)
	s.SetEndPattern(end)
	s.tokens.Add(tokens...)
	return s
}

func (s *Span) StartPattern() pattern.Matcher { return s.start }
func (s *Span) EndPattern() pattern.Matcher   { return s.end }

func (s *Span) SetStartPattern(p pattern.Matcher) {
	if s.setPattern(&s.start, p) {
		s.patternChanged(PropStartPattern, s.complete())
	}
}

func (s *Span) SetEndPattern(p pattern.Matcher) {
	if s.setPattern(&s.end, p) {
		s.patternChanged(PropEndPattern, s.complete())
	}
}

func (s *Span) setPattern(dst *pattern.Matcher, p pattern.Matcher) bool {
	if pattern.IsNil(p) {
		p = nil
	}
	if pattern.Equal(p, *dst) {
		return false
	}
	*dst = p
	return true
}

func (s *Span) complete() bool { return s.start != nil && s.end != nil }

// tokenChanged forwards property changes of child tokens to the span's owner.
// Tokens of an invalid span are never matched, so their changes are dropped.
func (s *Span) tokenChanged(d Definition, p Property) {
	if s.notify != nil && s.valid {
		s.notify(d, p)
	}
}

// Tokens returns a copy of the span's child tokens, in declaration order.
func (s *Span) Tokens() []*Token { return s.tokens.Items() }

// TokenCount returns the number of child tokens.
func (s *Span) TokenCount() int { return s.tokens.Len() }

// AddToken appends tokens to the span. It panics if any of them already has an owner.
func (s *Span) AddToken(tokens ...*Token) { s.tokens.Add(tokens...) }

// InsertToken inserts t before the token at index i.
func (s *Span) InsertToken(i int, t *Token) { s.tokens.Insert(i, t) }

// RemoveToken removes t from the span and reports whether it was there.
func (s *Span) RemoveToken(t *Token) bool { return s.tokens.Remove(t) }

// ReplaceToken replaces the token at index i with t.
func (s *Span) ReplaceToken(i int, t *Token) { s.tokens.Replace(i, t) }

// ResetTokens replaces all of the span's tokens.
func (s *Span) ResetTokens(tokens ...*Token) { s.tokens.Reset(tokens...) }
