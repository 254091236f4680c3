package highlight

import "sort"

// A RunSource supplies runs to a Formatter by position in the laid-out text.
type RunSource interface {
	// RunAt returns the run covering offset pos. If pos falls inside a run, the part of the
	// run before pos is cut off, so the returned run always starts at pos.
	// It returns false if pos is past the end of the text.
	RunAt(pos int) (Run, bool)
	// Len returns the total length of the laid-out text, in runes.
	Len() int
}

// RunIndex is a RunSource over a fixed list of runs, with O(log n) lookups.
type RunIndex struct {
	runs []Run
	ends []int
}

// NewRunIndex indexes runs, which must be contiguous and in order, as returned by
// Highlighter.Runs. Empty runs are left out of the index.
func NewRunIndex(runs []Run) *RunIndex {
	x := &RunIndex{}
	for _, r := range runs {
		if n := r.Len(); n > 0 {
			x.runs = append(x.runs, r)
			x.ends = append(x.ends, r.Start+n)
		}
	}
	return x
}

func (x *RunIndex) Len() int {
	if len(x.ends) == 0 {
		return 0
	}
	return x.ends[len(x.ends)-1]
}

// Runs returns the indexed runs. Callers should not modify the returned slice.
func (x *RunIndex) Runs() []Run { return x.runs }

func (x *RunIndex) find(pos int) int {
	if pos < 0 || pos >= x.Len() {
		return -1
	}
	return sort.SearchInts(x.ends, pos+1)
}

func (x *RunIndex) RunAt(pos int) (Run, bool) {
	i := x.find(pos)
	if i < 0 {
		return Run{}, false
	}
	r := x.runs[i]
	if pos > r.Start {
		_, r = r.split(pos - r.Start)
	}
	return r, true
}

// SourceOffset converts an offset in the laid-out text into an offset in the highlighted
// text. Offsets inside preedit text map to its insertion point; offsets past the end map to
// the end of the highlighted text.
func (x *RunIndex) SourceOffset(pos int) int {
	if len(x.runs) == 0 {
		return 0
	}
	if pos < 0 {
		return x.runs[0].Source
	}
	i := x.find(pos)
	if i < 0 {
		return x.runs[len(x.runs)-1].SourceEnd()
	}
	r := x.runs[i]
	if r.Kind == RunPreedit {
		return r.Source
	}
	return r.Source + pos - r.Start
}
