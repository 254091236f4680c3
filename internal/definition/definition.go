// Package definition describes the grammar used by the syntax highlighter: tokens,
// spans and the sets that group them into a language.
//
// Definitions are mutable. Every definition belongs to at most one owner (a Span or a Set),
// which it notifies whenever one of its properties changes; sets turn those notifications into
// a single Changed event for the highlighters that use them.
//
// Definitions are not safe for concurrent use.
package definition

import (
	"fmt"

	"github.com/dpinela/synlayout/internal/color"
)

// Property identifies a property of a definition in change notifications.
type Property int

const (
	PropName Property = iota
	PropForeground
	PropFontFamily
	PropFontStyle
	PropFontWeight
	PropFontSize
	PropPattern
	PropStartPattern
	PropEndPattern
	PropTokens
	// PropValid is sent instead of the pattern property when a pattern change flips validity.
	PropValid
)

var propertyNames = [...]string{
	"Name", "Foreground", "FontFamily", "FontStyle", "FontWeight", "FontSize",
	"Pattern", "StartPattern", "EndPattern", "Tokens", "Valid",
}

func (p Property) String() string {
	if p >= 0 && int(p) < len(propertyNames) {
		return propertyNames[p]
	}
	return fmt.Sprintf("Property(%d)", int(p))
}

// affectsOutput reports whether a change to p can change highlighting results.
func (p Property) affectsOutput() bool { return p != PropName }

// A Definition is either a *Token or a *Span.
type Definition interface {
	Name() string
	Style() Style
	// IsValid reports whether all the patterns the definition needs are set.
	// Invalid definitions are skipped when matching.
	IsValid() bool

	base() *definition
}

// notifyFunc receives changes to property p of definition d.
type notifyFunc func(d Definition, p Property)

// definition holds the state shared by tokens and spans.
type definition struct {
	self  Definition
	name  string
	style Style
	valid bool

	owner  any
	notify notifyFunc
}

func (d *definition) base() *definition { return d }

func (d *definition) Name() string  { return d.name }
func (d *definition) Style() Style  { return d.style }
func (d *definition) IsValid() bool { return d.valid }

func (d *definition) Foreground() *color.Color { return d.style.Foreground }
func (d *definition) FontFamily() string       { return d.style.FontFamily }
func (d *definition) FontStyle() FontStyle     { return d.style.FontStyle }
func (d *definition) FontWeight() FontWeight   { return d.style.FontWeight }
func (d *definition) FontSize() float64        { return d.style.FontSize }

// SetName changes the informational name of the definition.
func (d *definition) SetName(name string) {
	if name != d.name {
		d.name = name
		d.changed(PropName)
	}
}

// SetForeground changes the text color; nil inherits it.
func (d *definition) SetForeground(c *color.Color) {
	if !color.Equal(c, d.style.Foreground) {
		if c != nil {
			cc := *c
			c = &cc
		}
		d.style.Foreground = c
		d.changed(PropForeground)
	}
}

// SetFontFamily changes the font family; the empty string inherits it.
func (d *definition) SetFontFamily(family string) {
	if family != d.style.FontFamily {
		d.style.FontFamily = family
		d.changed(PropFontFamily)
	}
}

func (d *definition) SetFontStyle(s FontStyle) {
	if s != d.style.FontStyle {
		d.style.FontStyle = s
		d.changed(PropFontStyle)
	}
}

func (d *definition) SetFontWeight(w FontWeight) {
	if w != d.style.FontWeight {
		d.style.FontWeight = w
		d.changed(PropFontWeight)
	}
}

// SetFontSize changes the font size; zero or NaN inherits it.
func (d *definition) SetFontSize(size float64) {
	if !sameSize(size, d.style.FontSize) {
		d.style.FontSize = size
		d.changed(PropFontSize)
	}
}

// SetStyle replaces all the appearance overrides at once, notifying the owner of each
// property that actually changed.
func (d *definition) SetStyle(s Style) {
	d.SetForeground(s.Foreground)
	d.SetFontFamily(s.FontFamily)
	d.SetFontStyle(s.FontStyle)
	d.SetFontWeight(s.FontWeight)
	d.SetFontSize(s.FontSize)
}

func (d *definition) changed(p Property) {
	if d.notify != nil {
		d.notify(d.self, p)
	}
}

func (d *definition) setValid(v bool) {
	if v != d.valid {
		d.valid = v
		d.changed(PropValid)
	}
}

// patternChanged reports a change to the pattern property p that leaves the definition
// with validity v. Owners see a single notification either way.
func (d *definition) patternChanged(p Property, v bool) {
	if v != d.valid {
		d.setValid(v)
		return
	}
	d.changed(p)
}

func (d *definition) checkAttachable() {
	if d.self == nil {
		panic("definition: definitions must be created with NewToken or NewSpan")
	}
	if d.owner != nil {
		panic(fmt.Sprintf("definition: %q is already attached to an owner", d.name))
	}
}

func (d *definition) attach(owner any, notify notifyFunc) {
	d.checkAttachable()
	d.owner, d.notify = owner, notify
}

func (d *definition) detach(owner any) {
	if d.owner != owner {
		panic(fmt.Sprintf("definition: %q is not attached to this owner", d.name))
	}
	d.owner, d.notify = nil, nil
}

// Attached reports whether the definition currently belongs to a span or set.
func (d *definition) Attached() bool { return d.owner != nil }
