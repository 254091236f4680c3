package highlight

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/dpinela/synlayout/internal/definition"
)

func TestRunIndex(t *testing.T) {
	runs := []Run{
		{Text: "ab", Start: 0, Source: 0},
		{Text: "", Start: 2, Source: 2},
		{Text: "cdé", Start: 2, Source: 2},
		{Text: "XY", Start: 5, Source: 5, Kind: RunPreedit},
		{Text: "f", Start: 7, Source: 5},
	}
	x := NewRunIndex(runs)
	if x.Len() != 8 {
		t.Errorf("Len() = %d, want 8", x.Len())
	}
	tests := []struct {
		pos    int
		text   string
		start  int
		source int
	}{
		{0, "ab", 0, 0},
		{1, "b", 1, 1},
		{2, "cdé", 2, 2},
		{4, "é", 4, 4},
		{6, "Y", 6, 5},
		{7, "f", 7, 5},
	}
	for _, tt := range tests {
		r, ok := x.RunAt(tt.pos)
		if !ok {
			t.Errorf("RunAt(%d) found nothing", tt.pos)
			continue
		}
		if r.Text != tt.text || r.Start != tt.start || r.Source != tt.source {
			t.Errorf("RunAt(%d) = %+v, want text %q at %d (source %d)", tt.pos, r, tt.text, tt.start, tt.source)
		}
	}
	for _, pos := range []int{-1, 8, 100} {
		if r, ok := x.RunAt(pos); ok {
			t.Errorf("RunAt(%d) = %+v, want nothing", pos, r)
		}
	}
	for pos, want := range map[int]int{0: 0, 3: 3, 5: 5, 6: 5, 7: 5, 8: 6} {
		if got := x.SourceOffset(pos); got != want {
			t.Errorf("SourceOffset(%d) = %d, want %d", pos, got, want)
		}
	}
}

func TestEmptyRunIndex(t *testing.T) {
	x := NewRunIndex(nil)
	if _, ok := x.RunAt(0); ok || x.Len() != 0 || x.SourceOffset(3) != 0 {
		t.Error("empty RunIndex returned something")
	}
}

// propertySet is a small grammar whose spans and tokens overlap in many ways.
func propertySet() *definition.Set {
	return set(
		[]*definition.Span{
			span(`"`, `"`, red, token(`\\.`, blue)),
			span(`\[`, `\]`, green, token(`a+`, blue)),
			span(`\(`, `b*\)`, blue),
		},
		token(`a+`, red), token(`ab`, green), token(`x*`, blue), token(`\\.`, green),
	)
}

func TestRunsCoverText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		alphabet := []rune("ab\"[]()\\x \n\r\b")
		text := string(rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 40).Draw(rt, "text"))
		n := len([]rune(text))
		selStart := rapid.IntRange(0, n).Draw(rt, "selStart")
		selEnd := rapid.IntRange(0, n).Draw(rt, "selEnd")
		preedit := rapid.SampledFrom([]string{"", "ü", "ime"}).Draw(rt, "preedit")

		h := New(&fakeFormatter{})
		h.SetDefinitions(propertySet())
		h.SetText(text)
		h.SetSelection(selStart, selEnd)
		h.SetPreedit(preedit, -1)
		runs := h.Runs()

		var sb strings.Builder
		start, source, preedits := 0, 0, 0
		for _, r := range runs {
			if r.Start != start {
				rt.Fatalf("run %+v starts at %d, want %d", r, r.Start, start)
			}
			if r.Len() == 0 {
				rt.Fatalf("empty run %+v", r)
			}
			start = r.End()
			if r.Kind == RunPreedit {
				preedits++
				if r.Text != preedit {
					rt.Fatalf("preedit run has text %q, want %q", r.Text, preedit)
				}
				continue
			}
			if r.Source < source {
				rt.Fatalf("run %+v overlaps the previous one, which ended at %d", r, source)
			}
			source = r.SourceEnd()
			if (r.Kind == RunLineBreak) != (r.Text == "\n") || strings.ContainsAny(r.Text, "\r\b") {
				rt.Fatalf("bad run %+v", r)
			}
			sb.WriteString(r.Text)
		}
		if want := strings.NewReplacer("\r", "", "\b", "").Replace(text); sb.String() != want {
			rt.Fatalf("runs spell %q, want %q", sb.String(), want)
		}
		if wantPreedits := min(len(preedit), 1); preedits != wantPreedits {
			rt.Fatalf("got %d preedit runs, want %d", preedits, wantPreedits)
		}

		lo, hi := h.Selection()
		for _, r := range runs {
			if r.Kind == RunPreedit {
				continue
			}
			if lo == hi {
				break
			}
			crosses := func(x int) bool { return r.Source < x && r.SourceEnd() > x }
			if crosses(lo) || crosses(hi) {
				rt.Fatalf("run %+v straddles the selection [%d, %d[", r, lo, hi)
			}
			inside := r.Source >= lo && r.Source < hi
			if inside && r.Props.Foreground != DefaultSelectionForeground {
				rt.Fatalf("selected run %+v does not use the selection foreground", r)
			}
		}
	})
}

func TestRunIndexMatchesRuns(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[ab"\[\]\\ é\n]{0,30}`).Draw(rt, "text")
		h := New(&fakeFormatter{})
		h.SetDefinitions(propertySet())
		h.SetText(text)
		runs := h.Runs()
		x := NewRunIndex(runs)
		pos := rapid.IntRange(0, x.Len()).Draw(rt, "pos")
		r, ok := x.RunAt(pos)
		if pos == x.Len() {
			if ok {
				rt.Fatalf("RunAt(%d) past the end returned %+v", pos, r)
			}
			return
		}
		if !ok || r.Start != pos {
			rt.Fatalf("RunAt(%d) = %+v, %v", pos, r, ok)
		}
		laidOut := []rune(x.concat())
		if got := string(laidOut[pos : pos+r.Len()]); got != r.Text {
			rt.Fatalf("RunAt(%d) has text %q, but the laid-out text there is %q", pos, r.Text, got)
		}
	})
}

func (x *RunIndex) concat() string {
	var sb strings.Builder
	for _, r := range x.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
