package main

import (
	"encoding/json"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dpinela/synlayout/internal/definition"
	"github.com/dpinela/synlayout/internal/highlight"
)

// runRecord is the serialized form of a highlight.Run.
type runRecord struct {
	Text       string  `json:"text" yaml:"text" cbor:"text"`
	Start      int     `json:"start" yaml:"start" cbor:"start"`
	Source     int     `json:"source" yaml:"source" cbor:"source"`
	Kind       string  `json:"kind" yaml:"kind" cbor:"kind"`
	Foreground string  `json:"foreground" yaml:"foreground" cbor:"foreground"`
	Background string  `json:"background,omitempty" yaml:"background,omitempty" cbor:"background,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty" cbor:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty" cbor:"fontSize,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty" cbor:"fontStyle,omitempty"`
	FontWeight int     `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty" cbor:"fontWeight,omitempty"`
}

func newRunRecord(r highlight.Run) runRecord {
	rec := runRecord{
		Text:       r.Text,
		Start:      r.Start,
		Source:     r.Source,
		Kind:       r.Kind.String(),
		Foreground: r.Props.Foreground.String(),
		FontFamily: r.Props.FontFamily,
		FontSize:   r.Props.FontSize,
		FontWeight: int(r.Props.FontWeight),
	}
	if r.Props.Background != nil {
		rec.Background = r.Props.Background.String()
	}
	if r.Props.FontStyle != definition.FontStyleInherit {
		rec.FontStyle = r.Props.FontStyle.String()
	}
	return rec
}

type runsOptions struct {
	lang      string
	format    string
	selection string
	preedit   string
	preeditAt int
}

func newRunsCmd(a *app) *cobra.Command {
	opts := &runsOptions{}

	cmd := &cobra.Command{
		Use:   "runs [file]",
		Short: "Print the styled runs of a file",
		Long: `Print the styled runs the highlighter computes for a file, one record per run.

Offsets are in characters. "start" is the offset within the displayed text, including
any composition text; "source" is the offset within the file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, a, opts, inputPath(args))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.lang, "lang", "l", "", "Language of the input (default: from the file extension)")
	f.StringVarP(&opts.format, "format", "f", "json", "Output format: json, yaml or cbor")
	f.StringVar(&opts.selection, "selection", "", "Selected text as START:END character offsets")
	f.StringVar(&opts.preedit, "preedit", "", "Composition text to insert")
	f.IntVar(&opts.preeditAt, "preedit-at", -1, "Where to insert the composition text (default: the selection start)")

	return cmd
}

func runRuns(cmd *cobra.Command, a *app, opts *runsOptions, path string) error {
	encode, ok := runEncoders[opts.format]
	if !ok {
		return errors.Errorf("invalid value %q for --format", opts.format)
	}
	set, err := a.lookupLang(opts.lang, path)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	h := a.newHighlighter(set)
	defer h.Close()
	sel := renderOptions{selection: opts.selection, preedit: opts.preedit, preeditAt: opts.preeditAt}
	if err := sel.setSelection(h); err != nil {
		return err
	}
	h.SetText(text)

	runs := h.Runs()
	records := make([]runRecord, len(runs))
	for i, r := range runs {
		records[i] = newRunRecord(r)
	}
	return errors.Wrap(encode(cmd.OutOrStdout(), records), "writing runs")
}

var runEncoders = map[string]func(io.Writer, []runRecord) error{
	"json": func(w io.Writer, records []runRecord) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
	"yaml": func(w io.Writer, records []runRecord) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	},
	"cbor": func(w io.Writer, records []runRecord) error {
		return cbor.NewEncoder(w).Encode(records)
	},
}
