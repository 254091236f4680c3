package highlight

import (
	"container/heap"

	"github.com/dpinela/synlayout/internal/pattern"
)

// A candidate is a match that has been found but not yet resolved against the others.
// For tokens, innerStart and innerEnd are unused.
type candidate struct {
	start, end           int
	innerStart, innerEnd int
	// order is the index of the matching definition in declaration order.
	order int
}

// candidateQueue holds at most one candidate per definition, ordered so that the leftmost
// candidate comes first; among candidates starting together the shortest one wins, and among
// candidates covering the same text the one declared first does.
// It implements heap.Interface.
type candidateQueue []candidate

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.start != b.start {
		return a.start < b.start
	}
	if a.end != b.end {
		return a.end < b.end
	}
	return a.order < b.order
}

func (q candidateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *candidateQueue) Push(x any) { *q = append(*q, x.(candidate)) }

func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old) - 1
	c := old[n]
	*q = old[:n]
	return c
}

func (q *candidateQueue) push(c candidate) { heap.Push(q, c) }
func (q *candidateQueue) pop() candidate  { return heap.Pop(q).(candidate) }

// overlaps reports whether the next candidate starts before offset end.
func (q candidateQueue) overlaps(end int) bool { return len(q) > 0 && q[0].start < end }

// resumeAt returns where to look for the next occurrence of a definition after a match
// covering [start, end[. Searching from the same offset after an empty match would find it
// again forever.
func resumeAt(start, end int) int {
	if end == start {
		return end + 1
	}
	return end
}

// findSpan finds the first occurrence of a span at or after offset from.
// A start delimiter without a matching end delimiter is not an occurrence, and since no later
// start can find an end either, the span stops matching entirely.
func findSpan(start, end pattern.Matcher, text []rune, from, order int) (candidate, bool) {
	sm, ok := start.FindAt(text, from)
	if !ok {
		return candidate{}, false
	}
	em, ok := end.FindAt(text, sm.End())
	if !ok {
		return candidate{}, false
	}
	return candidate{start: sm.Index, end: em.End(), innerStart: sm.End(), innerEnd: em.Index, order: order}, true
}

// findToken finds the first occurrence of a token at or after offset from.
func findToken(p pattern.Matcher, text []rune, from, order int) (candidate, bool) {
	m, ok := p.FindAt(text, from)
	if !ok {
		return candidate{}, false
	}
	return candidate{start: m.Index, end: m.End(), order: order}, true
}
