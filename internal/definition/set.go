package definition

import "slices"

// A Set is the grammar for one language: an ordered list of top-level spans and an ordered
// list of top-level tokens. Declaration order matters; it breaks ties between matches that
// cover exactly the same text.
//
// A Set raises its Changed event when definitions are added or removed, and when a property
// of a contained definition changes in a way that can affect highlighting. Changes to
// definitions that are invalid, and stay invalid, are not reported; neither are name changes.
type Set struct {
	name   string
	spans  ownedList[*Span]
	tokens ownedList[*Token]

	subscribers map[int]func()
	nextID      int
	batchDepth  int
	pending     bool
}

// NewSet creates an empty definition set.
func NewSet(name string) *Set {
	s := &Set{name: name, subscribers: make(map[int]func())}
	s.spans = ownedList[*Span]{owner: s, notify: s.memberChanged, changed: s.raise}
	s.tokens = ownedList[*Token]{owner: s, notify: s.memberChanged, changed: s.raise}
	return s
}

func (s *Set) Name() string { return s.name }

// Spans returns a copy of the top-level spans in declaration order.
func (s *Set) Spans() []*Span { return s.spans.Items() }

// Tokens returns a copy of the top-level tokens in declaration order.
func (s *Set) Tokens() []*Token { return s.tokens.Items() }

// AddSpan appends spans to the set. It panics if any of them already has an owner.
func (s *Set) AddSpan(spans ...*Span)       { s.spans.Add(spans...) }
func (s *Set) InsertSpan(i int, sp *Span)   { s.spans.Insert(i, sp) }
func (s *Set) RemoveSpan(sp *Span) bool     { return s.spans.Remove(sp) }
func (s *Set) ReplaceSpan(i int, sp *Span)  { s.spans.Replace(i, sp) }
func (s *Set) ResetSpans(spans ...*Span)    { s.spans.Reset(spans...) }
func (s *Set) AddToken(tokens ...*Token)    { s.tokens.Add(tokens...) }
func (s *Set) InsertToken(i int, t *Token)  { s.tokens.Insert(i, t) }
func (s *Set) RemoveToken(t *Token) bool    { return s.tokens.Remove(t) }
func (s *Set) ReplaceToken(i int, t *Token) { s.tokens.Replace(i, t) }
func (s *Set) ResetTokens(tokens ...*Token) { s.tokens.Reset(tokens...) }

// Subscribe registers f to be called whenever the set changes.
// The returned function removes the subscription; calling it more than once is harmless.
func (s *Set) Subscribe(f func()) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.subscribers[id] = f
	return func() { delete(s.subscribers, id) }
}

// Update calls f, delaying any Changed event until it returns.
// However many changes f makes, subscribers are notified at most once.
func (s *Set) Update(f func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		if s.batchDepth == 0 && s.pending {
			s.pending = false
			s.fire()
		}
	}()
	f()
}

func (s *Set) memberChanged(d Definition, p Property) {
	if p.affectsOutput() && (p == PropValid || d.IsValid()) {
		s.raise()
	}
}

func (s *Set) raise() {
	if s.batchDepth > 0 {
		s.pending = true
		return
	}
	s.fire()
}

func (s *Set) fire() {
	// Subscribers may unsubscribe while being notified.
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if f, ok := s.subscribers[id]; ok {
			f()
		}
	}
}
