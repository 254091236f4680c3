package highlight

import (
	"sort"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/definition"
)

// materializer turns highlighted text into an ordered list of runs.
//
// Spans are resolved first, left to right; the text between them and inside them is then
// tokenized. Every run is cut at selection boundaries and line breaks as it is emitted.
type materializer struct {
	text     []rune
	defaults RunProperties
	// selectionForeground replaces the foreground of every run inside [selLo, selHi[.
	selectionForeground color.Color
	selLo, selHi        int
	preedit             string
	preeditAt           int

	out []Run
}

func (m *materializer) run(set *definition.Set) []Run {
	var spans []*definition.Span
	var tokens []*definition.Token
	if set != nil {
		spans, tokens = set.Spans(), set.Tokens()
	}
	m.resolveSpans(spans, tokens)
	m.insertPreedit()
	start := 0
	for i := range m.out {
		m.out[i].Start = start
		start += m.out[i].Len()
	}
	return m.out
}

func (m *materializer) resolveSpans(spans []*definition.Span, tokens []*definition.Token) {
	var q candidateQueue
	for i, sp := range spans {
		if !sp.IsValid() {
			continue
		}
		if c, ok := findSpan(sp.StartPattern(), sp.EndPattern(), m.text, 0, i); ok {
			q.push(c)
		}
	}
	pos := 0
	for q.Len() > 0 {
		c := q.pop()
		sp := spans[c.order]
		if next, ok := findSpan(sp.StartPattern(), sp.EndPattern(), m.text, resumeAt(c.start, c.end), c.order); ok {
			q.push(next)
		}
		// Pending spans that overlap this one lose, but keep looking past it.
		for q.overlaps(c.end) {
			o := q.pop()
			osp := spans[o.order]
			if next, ok := findSpan(osp.StartPattern(), osp.EndPattern(), m.text, c.end, o.order); ok {
				q.push(next)
			}
		}
		if c.start == c.end {
			continue
		}
		props := m.defaults.With(sp.Style())
		m.tokenize(pos, c.start, tokens, m.defaults)
		m.emit(c.start, c.innerStart, props, props)
		m.tokenize(c.innerStart, c.innerEnd, sp.Tokens(), props)
		m.emit(c.innerEnd, c.end, props, props)
		pos = c.end
	}
	m.tokenize(pos, len(m.text), tokens, m.defaults)
}

// tokenize emits runs for text[start:end] using the given tokens. Text not covered by any
// token gets the context properties ctx, which token styles are also layered on.
// The region is matched on its own, as if it were the whole text.
func (m *materializer) tokenize(start, end int, tokens []*definition.Token, ctx RunProperties) {
	if start >= end {
		return
	}
	region := m.text[start:end]
	var q candidateQueue
	for i, t := range tokens {
		if !t.IsValid() {
			continue
		}
		if c, ok := findToken(t.Pattern(), region, 0, i); ok {
			q.push(c)
		}
	}
	pos := 0
	var pending candidate
	hasPending := false
	for q.Len() > 0 {
		c := q.pop()
		if next, ok := findToken(tokens[c.order].Pattern(), region, resumeAt(c.start, c.end), c.order); ok {
			q.push(next)
		}
		for q.overlaps(c.end) {
			o := q.pop()
			if next, ok := findToken(tokens[o.order].Pattern(), region, c.end, o.order); ok {
				q.push(next)
			}
		}
		if c.start == c.end {
			continue
		}
		// Back-to-back matches of the same token make a single run.
		if hasPending && pending.order == c.order && pending.end == c.start {
			pending.end = c.end
			continue
		}
		if hasPending {
			m.emit(start+pending.start, start+pending.end, ctx.With(tokens[pending.order].Style()), ctx)
			pos = pending.end
		}
		m.emit(start+pos, start+c.start, ctx, ctx)
		pending, hasPending = c, true
	}
	if hasPending {
		m.emit(start+pending.start, start+pending.end, ctx.With(tokens[pending.order].Style()), ctx)
		pos = pending.end
	}
	m.emit(start+pos, end, ctx, ctx)
}

// emit appends runs for text[start:end] with properties props. Each line break becomes a run
// of its own with the surrounding properties; carriage returns and backspaces are dropped.
func (m *materializer) emit(start, end int, props, surrounding RunProperties) {
	for i := start; i < end; {
		switch m.text[i] {
		case '\n':
			m.appendRun(i, i+1, surrounding, RunLineBreak)
			i++
			continue
		case '\r', '\b':
			i++
			continue
		}
		j := i + 1
		for j < end && !isBreak(m.text[j]) && j != m.selLo && j != m.selHi {
			j++
		}
		m.appendRun(i, j, props, RunText)
		i = j
	}
}

func isBreak(r rune) bool { return r == '\n' || r == '\r' || r == '\b' }

func (m *materializer) appendRun(start, end int, props RunProperties, kind RunKind) {
	if start >= m.selLo && start < m.selHi {
		props.Foreground = m.selectionForeground
	}
	m.out = append(m.out, Run{Text: string(m.text[start:end]), Source: start, Kind: kind, Props: props})
}

// insertPreedit inserts the composition text as a run of its own at its insertion point,
// splitting the run that covers that point if necessary.
func (m *materializer) insertPreedit() {
	if m.preedit == "" {
		return
	}
	at := m.preeditAt
	if at < 0 {
		at = 0
	} else if at > len(m.text) {
		at = len(m.text)
	}
	props := m.defaults
	props.Underline = true
	pr := Run{Text: m.preedit, Source: at, Kind: RunPreedit, Props: props}

	i := sort.Search(len(m.out), func(i int) bool { return m.out[i].SourceEnd() > at })
	if i < len(m.out) && m.out[i].Source < at {
		head, tail := m.out[i].split(at - m.out[i].Source)
		m.out = append(m.out, Run{}, Run{})
		copy(m.out[i+3:], m.out[i+1:])
		m.out[i], m.out[i+1], m.out[i+2] = head, pr, tail
		return
	}
	m.out = append(m.out, Run{})
	copy(m.out[i+1:], m.out[i:])
	m.out[i] = pr
}
