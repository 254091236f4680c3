// Package clipboard provides functions for copying and pasting text
// across different synhl invocations by the same user.
//
// On macOS, this uses the system clipboard and thus works across all applications.
package clipboard

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"

	"github.com/dpinela/synlayout/internal/atomicwrite"
)

// A Clipboard stores copied text in a file in Dir, or in the system clipboard if System
// is set and one is available.
type Clipboard struct {
	Dir    string
	System bool
}

// New returns a Clipboard storing its contents in dir that also uses the system clipboard.
func New(dir string) *Clipboard { return &Clipboard{Dir: dir, System: true} }

// Copy overwrites the clipboard's contents with the given data.
func (c *Clipboard) Copy(data []byte) error {
	return errors.WithMessage(c.copy(data), "copy failed")
}

// Paste returns the last data stored with Copy by any Clipboard with the same Dir,
// or the last data copied into the system clipboard if that is supported.
func (c *Clipboard) Paste() ([]byte, error) {
	data, err := c.paste()
	return data, errors.WithMessage(err, "paste failed")
}

func (c *Clipboard) usePasteboard() bool { return c.System && runtime.GOOS == "darwin" }

func (c *Clipboard) copy(data []byte) error {
	if c.usePasteboard() {
		if err := copyToPasteboard(data); err == nil {
			return nil
		}
	}
	return atomicwrite.Write(c.filename(), func(w io.Writer) error { _, err := w.Write(data); return err })
}

func (c *Clipboard) paste() ([]byte, error) {
	if c.usePasteboard() {
		if data, err := pastePasteboard(); err == nil {
			return data, nil
		}
	}
	return os.ReadFile(c.filename())
}

func (c *Clipboard) filename() string { return filepath.Join(c.Dir, "clipboard") }

func copyToPasteboard(b []byte) error {
	copyCmd := exec.Command("pbcopy")
	copyCmd.Stdin = bytes.NewReader(b)
	return copyCmd.Run()
}

func pastePasteboard() ([]byte, error) {
	return exec.Command("pbpaste").Output()
}
