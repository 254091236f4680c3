package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dpinela/synlayout/internal/atomicwrite"
	"github.com/dpinela/synlayout/internal/clipboard"
	"github.com/dpinela/synlayout/internal/highlight"
	"github.com/dpinela/synlayout/internal/pathwatch"
	"github.com/dpinela/synlayout/internal/termesc"
	"github.com/dpinela/synlayout/internal/textlayout"
)

type renderOptions struct {
	lang       string
	width      int
	wrap       string
	trim       string
	align      string
	rtl        bool
	maxLines   int
	maxHeight  float64
	lineHeight float64
	selection  string
	preedit    string
	preeditAt  int
	color      string
	output     string
	watch      bool
	copy       bool
	paste      bool
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Highlight a file and print it with terminal colors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, opts, inputPath(args))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.lang, "lang", "l", "", "Language of the input (default: from the file extension)")
	f.IntVarP(&opts.width, "width", "w", 0, "Wrapping width in cells (default: from the configuration, else the terminal)")
	f.StringVar(&opts.wrap, "wrap", "", "Wrapping: none, wrap or overflow (default: from the configuration)")
	f.StringVar(&opts.trim, "trim", "", "Trimming of cut-off text: none, character or word (default: from the configuration)")
	f.StringVar(&opts.align, "align", "left", "Alignment: left, right, center or justify")
	f.BoolVar(&opts.rtl, "rtl", false, "Lay out right to left")
	f.IntVar(&opts.maxLines, "max-lines", 0, "Show at most this many lines")
	f.Float64Var(&opts.maxHeight, "max-height", 0, "Show at most this many rows")
	f.Float64Var(&opts.lineHeight, "line-height", 0, "Rows per line")
	f.StringVar(&opts.selection, "selection", "", "Selected text as START:END character offsets")
	f.StringVar(&opts.preedit, "preedit", "", "Composition text to insert")
	f.IntVar(&opts.preeditAt, "preedit-at", -1, "Where to insert the composition text (default: the selection start)")
	f.StringVar(&opts.color, "color", "auto", "Colors: auto, truecolor, 256, 16 or none")
	f.StringVarP(&opts.output, "output", "o", "", "Write to this file instead of standard output")
	f.BoolVar(&opts.watch, "watch", false, "Render again whenever the file or a definition file changes")
	f.BoolVar(&opts.copy, "copy", false, "Also copy the laid-out text, without colors, to the clipboard")
	f.BoolVar(&opts.paste, "paste", false, "Read the input from the clipboard")

	return cmd
}

var (
	wrapModes  = map[string]highlight.Wrapping{"none": highlight.NoWrap, "wrap": highlight.Wrap, "overflow": highlight.WrapWithOverflow}
	trimModes  = map[string]highlight.Trimming{"none": highlight.TrimNone, "character": highlight.TrimCharacterEllipsis, "word": highlight.TrimWordEllipsis}
	alignments = map[string]highlight.Alignment{"left": highlight.AlignLeft, "right": highlight.AlignRight, "center": highlight.AlignCenter, "justify": highlight.AlignJustify}
	profiles   = map[string]termenv.Profile{"truecolor": termenv.TrueColor, "256": termenv.ANSI256, "16": termenv.ANSI, "none": termenv.Ascii}
)

func lookupOption[T any](m map[string]T, flag, value string) (T, error) {
	v, ok := m[value]
	if !ok {
		return v, errors.Errorf("invalid value %q for --%s", value, flag)
	}
	return v, nil
}

func (o *renderOptions) paragraph(a *app, out io.Writer) (highlight.Paragraph, error) {
	p := highlight.Paragraph{
		MaxLines:   o.maxLines,
		MaxHeight:  o.maxHeight,
		LineHeight: o.lineHeight,
	}
	if o.rtl {
		p.FlowDirection = highlight.RightToLeft
	}
	wrap, trim := a.cfg.Wrapping, a.cfg.Trimming
	if o.wrap != "" {
		wrap = o.wrap
	}
	if o.trim != "" {
		trim = o.trim
	}
	var err error
	if p.Wrapping, err = lookupOption(wrapModes, "wrap", wrap); err != nil {
		return p, err
	}
	if p.Trimming, err = lookupOption(trimModes, "trim", trim); err != nil {
		return p, err
	}
	if p.Alignment, err = lookupOption(alignments, "align", o.align); err != nil {
		return p, err
	}
	width := o.width
	if width == 0 {
		width = a.cfg.Width
	}
	if width == 0 {
		width = terminalWidth(out)
	}
	p.MaxWidth = float64(width)
	return p, nil
}

// terminalWidth returns the width of the terminal w writes to, or 0 if w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (o *renderOptions) profile(out io.Writer) (termenv.Profile, error) {
	if o.color != "auto" {
		return lookupOption(profiles, "color", o.color)
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.EnvColorProfile(), nil
	}
	return termenv.TrueColor, nil
}

func (o *renderOptions) setSelection(h *highlight.Highlighter) error {
	if o.selection != "" {
		var start, end int
		if _, err := fmt.Sscanf(o.selection, "%d:%d", &start, &end); err != nil {
			return errors.Errorf("invalid value %q for --selection; want START:END", o.selection)
		}
		h.SetSelection(start, end)
	}
	h.SetPreedit(o.preedit, o.preeditAt)
	return nil
}

func runRender(cmd *cobra.Command, a *app, opts *renderOptions, path string) error {
	if opts.watch && (isStdin(path) || opts.paste) {
		return errors.New("--watch needs a file to watch")
	}
	if opts.paste && !isStdin(path) {
		return errors.New("--paste and a file argument are mutually exclusive")
	}
	set, err := a.lookupLang(opts.lang, path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	para, err := opts.paragraph(a, out)
	if err != nil {
		return err
	}
	profile, err := opts.profile(out)
	if err != nil {
		return err
	}
	h := a.newHighlighter(set)
	defer h.Close()
	h.SetParagraph(para)
	if err := opts.setSelection(h); err != nil {
		return err
	}

	render := func() error {
		text, err := a.readText(cmd, path, opts.paste)
		if err != nil {
			return err
		}
		h.SetText(text)
		layout := h.CreateTextLayout().(*textlayout.Layout)
		if opts.copy {
			if err := a.copyLayout(layout); err != nil {
				return err
			}
		}
		if opts.output != "" {
			return atomicwrite.Write(opts.output, func(w io.Writer) error { return layout.Render(w, profile) })
		}
		if opts.watch {
			var frame bytes.Buffer
			if err := layout.Render(&frame, profile); err != nil {
				return err
			}
			return termesc.Redraw(out, frame.Bytes())
		}
		return layout.Render(out, profile)
	}
	if opts.watch && opts.output == "" {
		if _, err := io.WriteString(out, termesc.ClearScreen); err != nil {
			return err
		}
	}
	if err := render(); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return a.watch(cmd, path, render)
}

func (a *app) clipboard() (*clipboard.Clipboard, error) {
	dir, err := a.cfg.ClipboardDirectory()
	if err != nil {
		return nil, errors.WithMessage(err, "no clipboard directory")
	}
	return clipboard.New(dir), nil
}

func (a *app) readText(cmd *cobra.Command, path string, paste bool) (string, error) {
	if !paste {
		return readInput(cmd, path)
	}
	cb, err := a.clipboard()
	if err != nil {
		return "", err
	}
	data, err := cb.Paste()
	return string(data), err
}

func (a *app) copyLayout(layout *textlayout.Layout) error {
	cb, err := a.clipboard()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := layout.Render(&buf, termenv.Ascii); err != nil {
		return err
	}
	return cb.Copy(buf.Bytes())
}

// watch calls render whenever the file at path or one of the definition directories changes,
// until the command's context is done. Definition files are reloaded first.
func (a *app) watch(cmd *cobra.Command, path string, render func() error) error {
	w, err := pathwatch.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	fileChanged := make(chan struct{}, 1)
	langsChanged := make(chan struct{}, 1)
	w.Add(path, fileChanged)
	for _, dir := range a.langDirs {
		w.Add(dir, langsChanged)
	}
	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-langsChanged:
			a.log.Info().Msg("definition files changed")
			a.loadLangs()
		case <-fileChanged:
			a.log.Debug().Str("path", path).Msg("input changed")
		case err := <-w.Errors():
			a.log.Warn().Err(err).Msg("watching files")
			continue
		}
		if err := render(); err != nil {
			a.log.Error().Err(err).Msg("rendering")
		}
	}
}
