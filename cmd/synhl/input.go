package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// readInput returns the contents of the file at path, or of standard input if path is
// empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if isStdin(path) {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	return string(data), errors.Wrap(err, "reading input")
}

func isStdin(path string) bool { return path == "" || path == "-" }

func inputPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// extension returns the extension of path without the dot.
func extension(path string) string {
	if isStdin(path) {
		return ""
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
