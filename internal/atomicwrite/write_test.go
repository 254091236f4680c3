package atomicwrite

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

var testContent = []byte("\x1B[0;1mlorem\x1B[0m ipsum\ndolor $it amet\nmet cons€quiat\n")

func writeTestContent(w io.Writer) error {
	_, err := w.Write(testContent)
	return err
}

func TestWrite(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.ansi")
	if err := Write(name, writeTestContent); err != nil {
		t.Error(err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Error(err)
	}
	if !bytes.Equal(data, testContent) {
		t.Errorf("read back written data: got %q, want %q", data, testContent)
	}
	info, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	if perms := info.Mode().Perm(); perms != defaultPerms {
		t.Errorf("after Write, got permissions %v, want %v", perms, defaultPerms)
	}
}

func TestPermissionsPreserved(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.ansi")
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0755)
	if err != nil {
		t.Fatal(err)
	}
	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	oldPerms := info.Mode() & os.ModePerm
	f.Close()
	if err := Write(name, writeTestContent); err != nil {
		t.Error(err)
	}
	if info, err = os.Stat(name); err != nil {
		t.Fatal(err)
	}
	if newPerms := info.Mode() & os.ModePerm; newPerms != oldPerms {
		t.Errorf("after Write, got permissions %v, want %v", newPerms, oldPerms)
	}
}

func TestFailedWriteKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.ansi")
	if err := os.WriteFile(name, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	err := Write(name, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return boom
	})
	if err == nil {
		t.Fatal("Write succeeded despite a failing content writer")
	}
	if data, _ := os.ReadFile(name); string(data) != "old" {
		t.Errorf("after a failed Write, got content %q, want %q", data, "old")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}
