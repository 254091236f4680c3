// Package highlight implements a syntax-highlighting text engine.
//
// A Highlighter combines text, a definition.Set describing the language, the current
// selection and composition (preedit) text into an ordered list of styled runs, and hands
// them to a Formatter which lays them out. Both the runs and the layout are computed lazily
// and cached until one of their inputs changes.
package highlight

import (
	"math"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/definition"
)

// A Formatter lays out paragraphs of styled text. It is the text-shaping collaborator of the
// Highlighter: the highlighter never measures glyphs itself.
type Formatter interface {
	// Format lays out the runs supplied by src. defaults are the properties of unstyled text.
	Format(src RunSource, p Paragraph, defaults RunProperties) Layout
}

// A Layout is the result of formatting text. Its concrete type depends on the Formatter;
// callers use it to measure, render and hit-test the text.
type Layout interface {
	Size() (width, height float64)
}

// Resources supplies default colors and fonts by symbolic name.
// Names missing from the Resources fall back to the engine defaults.
type Resources interface {
	Color(name string) (color.Color, bool)
	Font(name string) (family string, size float64, ok bool)
}

// Symbolic resource names looked up by the Highlighter.
const (
	ResourceForeground          = "text.foreground"
	ResourceBackground          = "text.background"
	ResourceSelectionForeground = "selection.foreground"
	ResourceFont                = "text.font"
)

// Engine defaults, used when neither the Style nor the Resources say otherwise.
var (
	DefaultFontFamily          = "monospace"
	DefaultFontSize            = 12.0
	DefaultForeground          = color.Color{}
	DefaultSelectionForeground = color.Color{R: 255, G: 255, B: 255}
)

// Style is the base appearance of the highlighted text. Unset fields fall back to the
// Resources, then to the engine defaults.
type Style struct {
	FontFamily          string
	FontSize            float64
	FontStretch         FontStretch
	FontStyle           definition.FontStyle
	FontWeight          definition.FontWeight
	Foreground          *color.Color
	Background          *color.Color
	SelectionForeground *color.Color
	LetterSpacing       float64
}

// Equal reports whether s and t describe the same appearance, comparing colors by value.
func (s Style) Equal(t Style) bool {
	return s.FontFamily == t.FontFamily &&
		sameFloat(s.FontSize, t.FontSize) &&
		s.FontStretch == t.FontStretch &&
		s.FontStyle == t.FontStyle &&
		s.FontWeight == t.FontWeight &&
		color.Equal(s.Foreground, t.Foreground) &&
		color.Equal(s.Background, t.Background) &&
		color.Equal(s.SelectionForeground, t.SelectionForeground) &&
		sameFloat(s.LetterSpacing, t.LetterSpacing)
}

func sameFloat(a, b float64) bool { return a == b || (math.IsNaN(a) && math.IsNaN(b)) }

type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
	AlignJustify
)

type Wrapping uint8

const (
	NoWrap Wrapping = iota
	Wrap
	// WrapWithOverflow only breaks lines between words, letting long words overflow.
	WrapWithOverflow
)

type Trimming uint8

const (
	TrimNone Trimming = iota
	TrimCharacterEllipsis
	TrimWordEllipsis
)

type FlowDirection uint8

const (
	LeftToRight FlowDirection = iota
	RightToLeft
)

// Paragraph holds the properties that affect only how runs are laid out.
// Zero limits mean unbounded; a zero LineHeight lets the Formatter choose.
type Paragraph struct {
	Alignment     Alignment
	Wrapping      Wrapping
	Trimming      Trimming
	FlowDirection FlowDirection
	LineHeight    float64
	MaxWidth      float64
	MaxHeight     float64
	MaxLines      int
}

// A Highlighter computes styled runs and text layouts for one piece of text.
//
// A Highlighter must only be used by one goroutine at a time. Calls from another goroutine
// while a call is in progress, and calls made while the highlighter is computing runs (for
// example from a Matcher or a definition set subscriber), panic.
type Highlighter struct {
	formatter Formatter
	resources Resources
	log       zerolog.Logger

	text      []rune
	textStr   string
	selStart  int
	selEnd    int
	preedit   string
	preeditAt int
	defs      *definition.Set
	style     Style
	para      Paragraph

	unsubscribe func()

	runs      []Run
	runsValid bool
	layout    Layout

	subscribers map[int]func()
	nextID      int

	busy atomic.Bool
}

// An Option configures a Highlighter.
type Option func(*Highlighter)

// WithResources makes the Highlighter look up default colors and fonts in r.
func WithResources(r Resources) Option { return func(h *Highlighter) { h.resources = r } }

// WithLogger makes the Highlighter log its recomputations to l at debug level.
func WithLogger(l zerolog.Logger) Option { return func(h *Highlighter) { h.log = l } }

// New creates a Highlighter that lays out text with f.
func New(f Formatter, opts ...Option) *Highlighter {
	if f == nil {
		panic("highlight: nil Formatter")
	}
	h := &Highlighter{formatter: f, log: zerolog.Nop(), preeditAt: -1, subscribers: make(map[int]func())}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Highlighter) enter() {
	if !h.busy.CompareAndSwap(false, true) {
		panic("highlight: Highlighter used concurrently or re-entrantly")
	}
}

func (h *Highlighter) leave() { h.busy.Store(false) }

// guarded runs f with the highlighter marked busy.
func (h *Highlighter) guarded(f func() bool) bool {
	h.enter()
	defer h.leave()
	return f()
}

// mutate runs f, which reports whether it dropped cached results, and notifies subscribers
// if it did. Subscribers run outside the busy section, so they may call back into h.
func (h *Highlighter) mutate(f func() bool) {
	if h.guarded(f) {
		h.fire()
	}
}

func (h *Highlighter) dropRuns() bool {
	had := h.runsValid || h.layout != nil
	h.runs, h.runsValid, h.layout = nil, false, nil
	return had
}

func (h *Highlighter) dropLayout() bool {
	had := h.layout != nil
	h.layout = nil
	return had
}

// Subscribe registers f to be called whenever a previously computed layout or run list
// becomes stale. The returned function cancels the subscription.
func (h *Highlighter) Subscribe(f func()) (cancel func()) {
	h.enter()
	defer h.leave()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = f
	return func() {
		h.enter()
		defer h.leave()
		delete(h.subscribers, id)
	}
}

func (h *Highlighter) fire() {
	var fs []func()
	h.guarded(func() bool {
		for id := 0; id < h.nextID; id++ {
			if f, ok := h.subscribers[id]; ok {
				fs = append(fs, f)
			}
		}
		return false
	})
	for _, f := range fs {
		f()
	}
}

// Text returns the text being highlighted.
func (h *Highlighter) Text() string { return h.textStr }

// SetText changes the text being highlighted.
func (h *Highlighter) SetText(s string) {
	h.mutate(func() bool {
		if s == h.textStr {
			return false
		}
		h.textStr, h.text = s, []rune(s)
		return h.dropRuns()
	})
}

// Selection returns the selected range, lowest offset first.
func (h *Highlighter) Selection() (start, end int) {
	if h.selStart > h.selEnd {
		return h.selEnd, h.selStart
	}
	return h.selStart, h.selEnd
}

// SetSelection selects the characters between offsets start and end, in either order.
// An empty selection just marks the insertion point.
func (h *Highlighter) SetSelection(start, end int) {
	if start > end {
		start, end = end, start
	}
	h.mutate(func() bool {
		if start == h.selStart && end == h.selEnd {
			return false
		}
		h.selStart, h.selEnd = start, end
		return h.dropRuns()
	})
}

// Preedit returns the composition text and its insertion index.
func (h *Highlighter) Preedit() (text string, index int) { return h.preedit, h.preeditAt }

// SetPreedit sets the composition text shown inline at offset index of the text, without
// being highlighted. A negative index places it at the start of the selection.
func (h *Highlighter) SetPreedit(text string, index int) {
	if index < 0 {
		index = -1
	}
	h.mutate(func() bool {
		if text == h.preedit && index == h.preeditAt {
			return false
		}
		h.preedit, h.preeditAt = text, index
		return h.dropRuns()
	})
}

// Definitions returns the definition set used for highlighting, which may be nil.
func (h *Highlighter) Definitions() *definition.Set { return h.defs }

// SetDefinitions changes the language used for highlighting. A nil set disables highlighting.
// The highlighter follows changes to the set until it is replaced or Close is called.
func (h *Highlighter) SetDefinitions(set *definition.Set) {
	h.mutate(func() bool {
		if set == h.defs {
			return false
		}
		if h.unsubscribe != nil {
			h.unsubscribe()
			h.unsubscribe = nil
		}
		h.defs = set
		if set != nil {
			h.unsubscribe = set.Subscribe(h.definitionsChanged)
		}
		return h.dropRuns()
	})
}

func (h *Highlighter) definitionsChanged() { h.mutate(h.dropRuns) }

// Style returns the base style.
func (h *Highlighter) Style() Style { return h.style }

// SetStyle changes the base style. Since it affects the properties of every run, it
// invalidates both the runs and the layout.
func (h *Highlighter) SetStyle(s Style) {
	h.mutate(func() bool {
		if s.Equal(h.style) {
			return false
		}
		h.style = s
		return h.dropRuns()
	})
}

// Paragraph returns the paragraph properties.
func (h *Highlighter) Paragraph() Paragraph { return h.para }

// SetParagraph changes the paragraph properties, which invalidates only the layout.
func (h *Highlighter) SetParagraph(p Paragraph) {
	h.mutate(func() bool {
		if p == h.para {
			return false
		}
		h.para = p
		return h.dropLayout()
	})
}

// Close stops following changes to the definition set and drops all subscribers.
func (h *Highlighter) Close() {
	h.guarded(func() bool {
		if h.unsubscribe != nil {
			h.unsubscribe()
			h.unsubscribe = nil
		}
		h.subscribers = make(map[int]func())
		return false
	})
}

// CreateTextLayout returns the layout of the current text, computing it if necessary.
// As long as nothing changes, repeated calls return the same Layout.
func (h *Highlighter) CreateTextLayout() Layout {
	h.enter()
	defer h.leave()
	if h.layout != nil {
		return h.layout
	}
	defaults := h.defaultProperties()
	runs := h.materialize(defaults)
	h.layout = h.formatter.Format(NewRunIndex(runs), h.para, defaults)
	h.log.Debug().Int("runs", len(runs)).Msg("created text layout")
	return h.layout
}

// Runs returns the styled runs of the current text, computing them if necessary.
// Callers should not modify the returned slice.
func (h *Highlighter) Runs() []Run {
	h.enter()
	defer h.leave()
	return h.materialize(h.defaultProperties())
}

func (h *Highlighter) materialize(defaults RunProperties) []Run {
	if h.runsValid {
		return h.runs
	}
	lo, hi := h.Selection()
	lo, hi = clamp(lo, 0, len(h.text)), clamp(hi, 0, len(h.text))
	at := h.preeditAt
	if at < 0 {
		at = lo
	}
	if lo == hi {
		// An empty selection doesn't split runs.
		lo, hi = -1, -1
	}
	m := materializer{
		text:                h.text,
		defaults:            defaults,
		selectionForeground: h.selectionForeground(),
		selLo:               lo,
		selHi:               hi,
		preedit:             h.preedit,
		preeditAt:           at,
	}
	h.runs = m.run(h.defs)
	h.runsValid = true
	h.log.Debug().Int("length", len(h.text)).Int("runs", len(h.runs)).Msg("materialized text runs")
	return h.runs
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// defaultProperties resolves the properties of unstyled text.
func (h *Highlighter) defaultProperties() RunProperties {
	s := h.style
	p := RunProperties{
		FontFamily:    s.FontFamily,
		FontSize:      s.FontSize,
		FontStretch:   s.FontStretch,
		FontStyle:     s.FontStyle,
		FontWeight:    s.FontWeight,
		Background:    s.Background,
		LetterSpacing: s.LetterSpacing,
	}
	if p.FontFamily == "" || !(p.FontSize > 0) {
		family, size := h.font()
		if p.FontFamily == "" {
			p.FontFamily = family
		}
		if !(p.FontSize > 0) {
			p.FontSize = size
		}
	}
	if p.FontStretch == FontStretchInherit {
		p.FontStretch = FontStretchNormal
	}
	if p.FontStyle == definition.FontStyleInherit {
		p.FontStyle = definition.FontStyleNormal
	}
	if p.FontWeight == definition.FontWeightInherit {
		p.FontWeight = definition.FontWeightNormal
	}
	p.Foreground = h.colorResource(s.Foreground, ResourceForeground, DefaultForeground)
	if p.Background == nil && h.resources != nil {
		if c, ok := h.resources.Color(ResourceBackground); ok {
			p.Background = &c
		}
	}
	return p
}

func (h *Highlighter) selectionForeground() color.Color {
	return h.colorResource(h.style.SelectionForeground, ResourceSelectionForeground, DefaultSelectionForeground)
}

func (h *Highlighter) colorResource(own *color.Color, name string, fallback color.Color) color.Color {
	if own != nil {
		return *own
	}
	if h.resources != nil {
		if c, ok := h.resources.Color(name); ok {
			return c
		}
	}
	return fallback
}

func (h *Highlighter) font() (family string, size float64) {
	family, size = DefaultFontFamily, DefaultFontSize
	if h.resources == nil {
		return family, size
	}
	if f, s, ok := h.resources.Font(ResourceFont); ok {
		if f != "" {
			family = f
		}
		if s > 0 {
			size = s
		}
	}
	return family, size
}
