// Package config defines configuration settings for synhl and functions for loading them from a file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/tajtiattila/basedir"

	"github.com/dpinela/synlayout/internal/color"
)

// appName is the directory name used under the configuration and data directories.
const appName = "synlayout"

type Config struct {
	// Theme is "default" or the name of a chroma style, such as "monokai".
	Theme    string `toml:"theme" validate:"required"`
	TabWidth int    `toml:"tab_width" validate:"min=1,max=16"`
	// Width is the wrapping width in cells; zero means the width of the terminal.
	Width    int    `toml:"width" validate:"min=0"`
	Wrapping string `toml:"wrapping" validate:"oneof=none wrap overflow"`
	Trimming string `toml:"trimming" validate:"oneof=none character word"`
	LogLevel string `toml:"log_level" validate:"oneof=trace debug info warn error disabled"`
	// LangDir holds user definition files; see LangDirectory.
	LangDir string `toml:"lang_dir"`
	// ClipboardDir holds the clipboard used by render --copy and --paste; see ClipboardDirectory.
	ClipboardDir string `toml:"clipboard_dir"`
	// Colors override theme entries by name.
	Colors map[string]color.Color `toml:"colors"`
	// Lang maps filename extensions (".re") to language names.
	Lang map[string]string `toml:"lang"`
}

// Default returns the settings used for anything the configuration file leaves out.
func Default() *Config {
	return &Config{
		Theme:    "default",
		TabWidth: 4,
		Wrapping: "wrap",
		Trimming: "none",
		LogLevel: "warn",
		Colors:   make(map[string]color.Color),
		Lang:     map[string]string{".re": "regex", ".regex": "regex", ".fmt": "format"},
	}
}

// LangForExt returns the language configured for files with the given extension.
func (c *Config) LangForExt(ext string) (string, bool) {
	name, ok := c.Lang[strings.ToLower(ext)]
	return name, ok
}

// Path returns where Load looks for the configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load finds and reads the primary configuration file for the current user, according to the
// XDG base directory specification for configuration files. It always returns a usable *Config,
// even if it also returns a non-nil error. A missing file is not an error.
// The file is expected to be at synlayout/config.toml in one of the appropriate configuration directories.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), errors.WithMessage(err, "error loading config file")
	}
	c, err := LoadFile(path)
	if os.IsNotExist(errors.Cause(err)) {
		return c, nil
	}
	return c, err
}

// LoadFile reads the configuration file at path. Like Load, it always returns a usable *Config;
// if the file cannot be used, that is Default().
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), errors.WithMessage(err, "error loading config file")
	}
	defer f.Close()
	c := Default()
	if _, err := toml.NewDecoder(f).Decode(c); err != nil {
		return Default(), errors.Wrapf(err, "error loading config file %s", path)
	}
	if err := validate.Struct(c); err != nil {
		return Default(), errors.Wrapf(err, "error loading config file %s", path)
	}
	return c, nil
}

// LangDirectory returns LangDir, or the default directory for user definition files,
// creating it if necessary.
func (c *Config) LangDirectory() (string, error) {
	if c.LangDir != "" {
		return c.LangDir, nil
	}
	return basedir.Data.EnsureDir(filepath.Join(appName, "langs"), 0700)
}

// ClipboardDirectory returns ClipboardDir, or the user data directory for synhl,
// creating it if necessary.
func (c *Config) ClipboardDirectory() (string, error) {
	if c.ClipboardDir != "" {
		return c.ClipboardDir, nil
	}
	return basedir.Data.EnsureDir(appName, 0700)
}

var validate = validator.New()
