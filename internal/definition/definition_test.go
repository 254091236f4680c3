package definition

import (
	"math"
	"testing"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/pattern"
)

func pat(expr string) *pattern.Pattern { return pattern.MustCompile(expr, 0) }

// changeCounter counts the Changed events raised by a set.
type changeCounter struct{ n int }

func watch(s *Set) *changeCounter {
	c := &changeCounter{}
	s.Subscribe(func() { c.n++ })
	return c
}

func (c *changeCounter) expect(t *testing.T, what string, want int) {
	t.Helper()
	if c.n != want {
		t.Errorf("%s: got %d Changed events, want %d", what, c.n, want)
	}
	c.n = 0
}

func expectPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: did not panic", what)
		}
	}()
	f()
}

func TestTokenValidity(t *testing.T) {
	tok := NewToken("escape", nil)
	if tok.IsValid() {
		t.Error("token without a pattern is valid")
	}
	var props []Property
	set := NewSet("test")
	set.AddToken(tok)
	tok.notify = func(d Definition, p Property) { props = append(props, p) }

	tok.SetPattern(pat(`\\.`))
	if !tok.IsValid() {
		t.Error("token with a pattern is not valid")
	}
	tok.SetPattern(pat(`\\.`))
	tok.SetPattern(pat(`\\[nt]`))
	tok.SetPattern(nil)
	want := []Property{PropValid, PropPattern, PropValid}
	if len(props) != len(want) {
		t.Fatalf("got notifications %v, want %v", props, want)
	}
	for i := range want {
		if props[i] != want[i] {
			t.Errorf("notification %d: got %v, want %v", i, props[i], want[i])
		}
	}
}

func TestTypedNilPatternIsInvalid(t *testing.T) {
	var p *pattern.Pattern
	if NewToken("x", p).IsValid() {
		t.Error("token with a nil *Pattern is valid")
	}
}

func TestSpanValidity(t *testing.T) {
	sp := NewSpan("class", pat(`\[`), nil)
	if sp.IsValid() {
		t.Error("span without an end pattern is valid")
	}
	sp.SetEndPattern(pat(`\]`))
	if !sp.IsValid() {
		t.Error("span with both patterns is not valid")
	}
	sp.SetStartPattern(nil)
	if sp.IsValid() {
		t.Error("span without a start pattern is valid")
	}
}

func TestSetChangedOnStructure(t *testing.T) {
	s := NewSet("test")
	c := watch(s)
	a, b := NewToken("a", pat("a")), NewToken("b", pat("b"))

	s.AddToken(a, b)
	c.expect(t, "AddToken with two tokens", 1)
	s.RemoveToken(a)
	c.expect(t, "RemoveToken", 1)
	if s.RemoveToken(a) {
		t.Error("RemoveToken of a detached token reported success")
	}
	c.expect(t, "RemoveToken of a missing token", 0)
	s.ResetTokens(a, b)
	c.expect(t, "ResetTokens", 1)
	s.ReplaceToken(0, a)
	c.expect(t, "ReplaceToken with the same token", 0)
	sp := NewSpan("s", pat(`\(`), pat(`\)`))
	s.InsertSpan(0, sp)
	c.expect(t, "InsertSpan", 1)
}

func TestSetChangedOnProperties(t *testing.T) {
	s := NewSet("test")
	tok := NewToken("t", nil)
	s.AddToken(tok)
	c := watch(s)

	tok.SetForeground(&color.Color{R: 1})
	c.expect(t, "style change of an invalid token", 0)
	tok.SetPattern(pat("t"))
	c.expect(t, "pattern change that makes the token valid", 1)
	tok.SetForeground(&color.Color{R: 2})
	c.expect(t, "style change of a valid token", 1)
	tok.SetForeground(&color.Color{R: 2})
	c.expect(t, "setting an equal color", 0)
	tok.SetFontSize(math.NaN())
	c.expect(t, "setting NaN over an unset size", 0)
	tok.SetName("renamed")
	c.expect(t, "name change", 0)
}

func TestSpanTokensNotifySet(t *testing.T) {
	s := NewSet("test")
	child := NewToken("child", pat("x"))
	sp := NewSpan("span", pat(`"`), pat(`"`), child)
	s.AddSpan(sp)
	c := watch(s)

	child.SetFontWeight(FontWeightBold)
	c.expect(t, "child token style change", 1)
	sp.AddToken(NewToken("other", pat("y")))
	c.expect(t, "adding a child token", 1)

	s.RemoveSpan(sp)
	c.expect(t, "removing the span", 1)
	child.SetFontWeight(FontWeightLight)
	c.expect(t, "child change after its span was removed", 0)
}

func TestPatternChangeRaisesOnce(t *testing.T) {
	s := NewSet("test")
	tok := NewToken("t", pat("t"))
	sp := NewSpan("s", pat(`\(`), pat(`\)`))
	s.AddToken(tok)
	s.AddSpan(sp)
	c := watch(s)

	tok.SetPattern(pat("u"))
	c.expect(t, "replacing a valid token's pattern", 1)
	tok.SetPattern(nil)
	c.expect(t, "clearing a valid token's pattern", 1)
	tok.SetPattern(pat("t"))
	c.expect(t, "setting an invalid token's pattern", 1)
	sp.SetEndPattern(nil)
	c.expect(t, "clearing a valid span's end pattern", 1)
	sp.SetStartPattern(nil)
	c.expect(t, "clearing an invalid span's start pattern", 0)
	sp.SetStartPattern(pat(`\[`))
	c.expect(t, "setting the start pattern of a span without an end", 0)
	sp.SetEndPattern(pat(`\]`))
	c.expect(t, "completing a span", 1)
}

func TestInvalidSpanDropsTokenChanges(t *testing.T) {
	s := NewSet("test")
	child := NewToken("child", pat("x"))
	sp := NewSpan("span", pat(`"`), nil, child)
	s.AddSpan(sp)
	c := watch(s)

	child.SetPattern(pat("y"))
	c.expect(t, "pattern change of a token in an invalid span", 0)
	child.SetForeground(&color.Color{B: 9})
	c.expect(t, "style change of a token in an invalid span", 0)
	sp.SetEndPattern(pat(`"`))
	c.expect(t, "completing the span", 1)
	child.SetPattern(pat("z"))
	c.expect(t, "pattern change of a token in a valid span", 1)
}

func TestFailedAddChangesNothing(t *testing.T) {
	owned := NewToken("owned", pat("o"))
	NewSet("other").AddToken(owned)
	s := NewSet("test")
	kept := NewToken("kept", pat("k"))
	s.AddToken(kept)
	c := watch(s)

	free := NewToken("free", pat("f"))
	expectPanic(t, "adding a free and an owned token", func() { s.AddToken(free, owned) })
	expectPanic(t, "adding the same token twice in one call", func() { s.AddToken(free, free) })
	expectPanic(t, "resetting to a list with an owned token", func() { s.ResetTokens(kept, free, owned) })
	expectPanic(t, "resetting to a list with a duplicate", func() { s.ResetTokens(kept, kept) })
	c.expect(t, "failed list changes", 0)
	if got := s.Tokens(); len(got) != 1 || got[0] != kept {
		t.Errorf("tokens after failed changes: got %d tokens, want only %q", len(got), kept.Name())
	}
	if free.Attached() {
		t.Error("token from a failed Add is attached")
	}

	s.ResetTokens(free, kept)
	c.expect(t, "resetting with a kept token", 1)
	if got := s.Tokens(); len(got) != 2 || got[0] != free || got[1] != kept {
		t.Error("ResetTokens did not keep the given order")
	}
}

func TestUpdateBatches(t *testing.T) {
	s := NewSet("test")
	c := watch(s)
	s.Update(func() {
		s.AddToken(NewToken("a", pat("a")))
		s.AddSpan(NewSpan("b", pat("<"), pat(">")))
		s.Update(func() { s.ResetTokens() })
	})
	c.expect(t, "batched update", 1)
	s.Update(func() {})
	c.expect(t, "empty batch", 0)
}

func TestUnsubscribe(t *testing.T) {
	s := NewSet("test")
	n := 0
	cancel := s.Subscribe(func() { n++ })
	s.AddToken(NewToken("a", pat("a")))
	cancel()
	cancel()
	s.AddToken(NewToken("b", pat("b")))
	if n != 1 {
		t.Errorf("got %d notifications, want 1", n)
	}
}

func TestSingleOwner(t *testing.T) {
	tok := NewToken("t", pat("t"))
	s := NewSet("test")
	s.AddToken(tok)
	expectPanic(t, "adding a token to the same set twice", func() { s.AddToken(tok) })
	expectPanic(t, "adding a set's token to a span", func() { NewSpan("s", pat("a"), pat("b"), tok) })

	other := NewSet("other")
	sp := NewSpan("s", pat("a"), pat("b"))
	s.AddSpan(sp)
	expectPanic(t, "adding a span to a second set", func() { other.AddSpan(sp) })

	s.RemoveToken(tok)
	other.AddToken(tok)
	if !tok.Attached() {
		t.Error("token is not attached after moving it to another set")
	}
}

func TestZeroValueDefinitionPanics(t *testing.T) {
	expectPanic(t, "attaching a zero Token", func() { NewSet("s").AddToken(&Token{}) })
}

func TestStyleEqual(t *testing.T) {
	red := color.Color{R: 255}
	red2 := red
	a := Style{Foreground: &red, FontSize: math.NaN()}
	b := Style{Foreground: &red2}
	if !a.Equal(b) {
		t.Error("styles with equal colors and unset sizes are not equal")
	}
	b.FontSize = 12
	if a.Equal(b) {
		t.Error("styles with different sizes are equal")
	}
}
