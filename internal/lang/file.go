package lang

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/definition"
	"github.com/dpinela/synlayout/internal/pattern"
)

// File is the contents of a definition file.
//
//	name = "ini"
//
//	[[spans]]
//	name = "section"
//	start = '^\['
//	end = '\]'
//	options = "m"
//	style = "keyword"
//
//	[[tokens]]
//	name = "comment"
//	pattern = ';.*'
//	color = "@comment"
type File struct {
	Name   string  `toml:"name" yaml:"name" validate:"required"`
	Spans  []Span  `toml:"spans" yaml:"spans" validate:"dive"`
	Tokens []Token `toml:"tokens" yaml:"tokens" validate:"dive"`
}

// Appearance is the styling part of a span or token. Style names a theme entry whose
// appearance is used as a base; the other fields override it.
type Appearance struct {
	Style      string  `toml:"style" yaml:"style"`
	Color      string  `toml:"color" yaml:"color" validate:"omitempty,colorref"`
	FontFamily string  `toml:"font_family" yaml:"font_family"`
	FontStyle  string  `toml:"font_style" yaml:"font_style" validate:"omitempty,oneof=inherit normal italic oblique"`
	FontWeight int     `toml:"font_weight" yaml:"font_weight" validate:"omitempty,min=1,max=1000"`
	FontSize   float64 `toml:"font_size" yaml:"font_size" validate:"omitempty,gt=0"`
}

type Span struct {
	Name       string  `toml:"name" yaml:"name" validate:"required"`
	Start      string  `toml:"start" yaml:"start" validate:"required"`
	End        string  `toml:"end" yaml:"end" validate:"required"`
	Options    string  `toml:"options" yaml:"options" validate:"omitempty,patternopts"`
	Tokens     []Token `toml:"tokens" yaml:"tokens" validate:"dive"`
	Appearance `yaml:",inline"`
}

type Token struct {
	Name       string `toml:"name" yaml:"name" validate:"required"`
	Pattern    string `toml:"pattern" yaml:"pattern" validate:"required"`
	Options    string `toml:"options" yaml:"options" validate:"omitempty,patternopts"`
	Appearance `yaml:",inline"`
}

// Format is the encoding of a definition file.
type Format int

const (
	TOML Format = iota
	YAML
)

// FormatForPath picks the format of a definition file from its extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, true
	case ".yaml", ".yml":
		return YAML, true
	}
	return 0, false
}

// Parse decodes a definition file. Unknown keys are errors.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, errors.Wrap(err, "lang: decode")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.Errorf("lang: decode: unknown key %q", keys[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "lang: decode")
		}
	default:
		return nil, errors.Errorf("lang: unknown format %d", format)
	}
	return &f, nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("colorref", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if strings.HasPrefix(s, "@") {
				return len(s) > 1
			}
			_, err := color.Parse(s)
			return err == nil
		})
		_ = v.RegisterValidation("patternopts", func(fl validator.FieldLevel) bool {
			_, err := pattern.ParseOptions(fl.Field().String())
			return err == nil
		})
		validateInst = v
	})
	return validateInst
}

func validate(f *File) error {
	if err := validatorInstance().Struct(f); err != nil {
		return errors.Wrapf(err, "lang: invalid definition of %q", f.Name)
	}
	return nil
}

// build compiles the definitions described by f.
func (r *Registry) build(f *File) ([]*definition.Span, []*definition.Token, error) {
	spans := make([]*definition.Span, 0, len(f.Spans))
	for _, sd := range f.Spans {
		sp, err := r.buildSpan(sd)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "lang: %s: span %q", f.Name, sd.Name)
		}
		spans = append(spans, sp)
	}
	tokens, err := r.buildTokens(f.Tokens)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "lang: %s", f.Name)
	}
	return spans, tokens, nil
}

func (r *Registry) buildSpan(sd Span) (*definition.Span, error) {
	opts, err := pattern.ParseOptions(sd.Options)
	if err != nil {
		return nil, err
	}
	start, err := r.patterns.Compile(sd.Start, opts)
	if err != nil {
		return nil, err
	}
	end, err := r.patterns.Compile(sd.End, opts)
	if err != nil {
		return nil, err
	}
	style, err := r.style(sd.Appearance)
	if err != nil {
		return nil, err
	}
	tokens, err := r.buildTokens(sd.Tokens)
	if err != nil {
		return nil, err
	}
	sp := definition.NewSpan(sd.Name, start, end, tokens...)
	sp.SetStyle(style)
	return sp, nil
}

func (r *Registry) buildTokens(tds []Token) ([]*definition.Token, error) {
	tokens := make([]*definition.Token, 0, len(tds))
	for _, td := range tds {
		opts, err := pattern.ParseOptions(td.Options)
		if err != nil {
			return nil, errors.WithMessagef(err, "token %q", td.Name)
		}
		p, err := r.patterns.Compile(td.Pattern, opts)
		if err != nil {
			return nil, errors.WithMessagef(err, "token %q", td.Name)
		}
		style, err := r.style(td.Appearance)
		if err != nil {
			return nil, errors.WithMessagef(err, "token %q", td.Name)
		}
		tokens = append(tokens, definition.NewStyledToken(td.Name, p, style))
	}
	return tokens, nil
}

// style resolves an appearance against the registry's theme. A style name missing from the
// theme leaves the definition unstyled; an unresolvable color is an error.
func (r *Registry) style(a Appearance) (definition.Style, error) {
	var s definition.Style
	if a.Style != "" {
		if ts, ok := r.theme.Style(a.Style); ok {
			s = ts
		}
	}
	if a.Color != "" {
		c, err := r.theme.Resolve(a.Color)
		if err != nil {
			return s, err
		}
		s.Foreground = &c
	}
	if a.FontFamily != "" {
		s.FontFamily = a.FontFamily
	}
	if a.FontStyle != "" {
		fs, ok := definition.ParseFontStyle(a.FontStyle)
		if !ok {
			return s, errors.Errorf("unknown font style %q", a.FontStyle)
		}
		s.FontStyle = fs
	}
	if a.FontWeight != 0 {
		s.FontWeight = definition.FontWeight(a.FontWeight)
	}
	if a.FontSize > 0 {
		s.FontSize = a.FontSize
	}
	return s, nil
}
