// Package lang keeps the definition sets of the languages a program can highlight.
//
// Sets come from the built-in languages and from definition files in TOML or YAML. Colors in
// definition files may name theme entries ("@keyword") instead of fixed values.
package lang

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dpinela/synlayout/internal/definition"
	"github.com/dpinela/synlayout/internal/pattern"
	"github.com/dpinela/synlayout/internal/theme"
)

// A Registry maps language names to definition sets.
//
// The map itself may be used from several goroutines, but the sets it holds follow the usual
// rules of package definition: they must not be modified while a Highlighter reads them.
type Registry struct {
	mu       sync.RWMutex
	sets     map[string]*definition.Set
	theme    *theme.Theme
	patterns *pattern.Cache
	log      zerolog.Logger
}

type Option func(*Registry)

// WithTheme sets the theme that color references are resolved against.
func WithTheme(t *theme.Theme) Option { return func(r *Registry) { r.theme = t } }

func WithLogger(l zerolog.Logger) Option { return func(r *Registry) { r.log = l } }

// WithPatternCache shares a compiled pattern cache between registries.
func WithPatternCache(c *pattern.Cache) Option { return func(r *Registry) { r.patterns = c } }

// NewRegistry creates a registry holding the built-in languages.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{sets: make(map[string]*definition.Set), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.theme == nil {
		r.theme = theme.Default()
	}
	if r.patterns == nil {
		r.patterns = pattern.NewCache(0)
	}
	for _, f := range builtins {
		if _, err := r.Define(f); err != nil {
			panic("lang: built-in language " + f.Name + ": " + err.Error())
		}
	}
	return r
}

func (r *Registry) Theme() *theme.Theme       { return r.theme }
func (r *Registry) Patterns() *pattern.Cache { return r.patterns }

// Register adds a set under its own name. It fails if the name is taken.
func (r *Registry) Register(set *definition.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sets[set.Name()]; ok {
		return errors.Errorf("lang: %q is already registered", set.Name())
	}
	r.sets[set.Name()] = set
	return nil
}

func (r *Registry) Lookup(name string) (*definition.Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.sets[name]
	return set, ok
}

// Names returns the names of all registered languages, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Define builds the definitions described by f. If a set named f.Name is already registered,
// its contents are replaced in a single update, so that highlighters using it recompute once;
// otherwise a new set is registered.
func (r *Registry) Define(f *File) (*definition.Set, error) {
	if err := validate(f); err != nil {
		return nil, err
	}
	spans, tokens, err := r.build(f)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	set, ok := r.sets[f.Name]
	if !ok {
		set = definition.NewSet(f.Name)
		r.sets[f.Name] = set
	}
	r.mu.Unlock()
	set.Update(func() {
		set.ResetSpans(spans...)
		set.ResetTokens(tokens...)
	})
	r.log.Debug().Str("lang", f.Name).Int("spans", len(spans)).Int("tokens", len(tokens)).Bool("reload", ok).Msg("defined language")
	return set, nil
}

// LoadFile reads a definition file and defines the language it describes.
func (r *Registry) LoadFile(path string) (*definition.Set, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, errors.Errorf("lang: %s: unknown definition file type", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "lang")
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	set, err := r.Define(f)
	return set, errors.WithMessage(err, path)
}

// LoadDir loads every definition file in dir. Files that fail to load are skipped; the first
// error is returned after trying the rest.
func (r *Registry) LoadDir(dir string) ([]*definition.Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "lang")
	}
	var (
		sets     []*definition.Set
		firstErr error
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatForPath(e.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		set, err := r.LoadFile(path)
		if err != nil {
			r.log.Warn().Err(err).Str("path", path).Msg("skipping definition file")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sets = append(sets, set)
	}
	return sets, firstErr
}
