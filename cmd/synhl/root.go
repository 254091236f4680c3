package main

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dpinela/synlayout/internal/color"
	"github.com/dpinela/synlayout/internal/config"
	"github.com/dpinela/synlayout/internal/definition"
	"github.com/dpinela/synlayout/internal/highlight"
	"github.com/dpinela/synlayout/internal/lang"
	"github.com/dpinela/synlayout/internal/logging"
	"github.com/dpinela/synlayout/internal/textlayout"
	"github.com/dpinela/synlayout/internal/theme"
)

type rootFlags struct {
	configPath string
	theme      string
	logLevel   string
	verbose    bool
	langDirs   []string
}

// app holds what every command needs, built from the configuration before the command runs.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	theme    *theme.Theme
	langs    *lang.Registry
	langDirs []string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	cmd := &cobra.Command{
		Use:           "synhl",
		Short:         "Highlight and lay out text for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Read settings from this file instead of the user configuration")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", `Color theme: "default" or a chroma style name`)
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")
	cmd.PersistentFlags().StringSliceVar(&flags.langDirs, "lang-dir", nil, "Also load definition files from this directory")

	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newRunsCmd(a))
	cmd.AddCommand(newLangsCmd(a))
	cmd.AddCommand(newThemesCmd())

	return cmd
}

func (a *app) init(cmd *cobra.Command, flags *rootFlags) error {
	var cfgErr error
	if flags.configPath != "" {
		a.cfg, cfgErr = config.LoadFile(flags.configPath)
	} else {
		a.cfg, cfgErr = config.Load()
	}

	level := a.cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	if flags.verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Options{Level: level, Console: true, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	a.log = log
	if cfgErr != nil {
		a.log.Warn().Err(cfgErr).Msg("using default settings")
	}

	themeName := a.cfg.Theme
	if flags.theme != "" {
		themeName = flags.theme
	}
	if a.theme, err = loadTheme(themeName, a.cfg.Colors); err != nil {
		return err
	}
	a.langs = lang.NewRegistry(lang.WithTheme(a.theme), lang.WithLogger(a.log))

	if dir, err := a.cfg.LangDirectory(); err != nil {
		a.log.Warn().Err(err).Msg("no user definition directory")
	} else {
		a.langDirs = append(a.langDirs, dir)
	}
	a.langDirs = append(a.langDirs, flags.langDirs...)
	a.loadLangs()
	return nil
}

// loadLangs (re)loads the definition files of every language directory. Languages that
// were loaded before are updated in place.
func (a *app) loadLangs() {
	for _, dir := range a.langDirs {
		if _, err := a.langs.LoadDir(dir); err != nil {
			a.log.Warn().Err(err).Str("dir", dir).Msg("loading definition files")
		}
	}
}

func loadTheme(name string, overrides map[string]color.Color) (*theme.Theme, error) {
	var th *theme.Theme
	if name == "" || name == "default" {
		th = theme.Default()
	} else {
		var err error
		if th, err = theme.FromChroma(name); err != nil {
			return nil, errors.WithMessage(err, "see 'synhl themes'")
		}
	}
	for n, c := range overrides {
		th.SetColor(n, c)
	}
	return th, nil
}

// lookupLang picks the language of the file at path: the one named explicitly, else the one
// configured for the file's extension, else the one named like the extension.
func (a *app) lookupLang(name, path string) (*definition.Set, error) {
	if name == "" && path != "" {
		ext := extension(path)
		if configured, ok := a.cfg.LangForExt("." + ext); ok {
			name = configured
		} else {
			name = ext
		}
	}
	if name == "" {
		return nil, errors.New("cannot tell the language of the input; use --lang")
	}
	set, ok := a.langs.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown language %q; see 'synhl langs'", name)
	}
	return set, nil
}

func (a *app) newHighlighter(set *definition.Set) *highlight.Highlighter {
	h := highlight.New(textlayout.Formatter{TabWidth: a.cfg.TabWidth},
		highlight.WithResources(a.theme), highlight.WithLogger(a.log))
	h.SetDefinitions(set)
	return h
}
