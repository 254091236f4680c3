// Package logging builds the zerolog loggers used by synhl.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level string
	// Console selects human-readable output instead of JSON lines.
	Console bool
	Writer  io.Writer
}

// New creates a logger writing to opts.Writer, or standard error if it is nil.
// An empty level means "warn".
func New(opts Options) (zerolog.Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.WarnLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), errors.Wrap(err, "logging")
		}
		level = parsed
	}
	if opts.Console {
		console := zerolog.NewConsoleWriter()
		console.Out = w
		console.TimeFormat = time.Kitchen
		w = console
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
