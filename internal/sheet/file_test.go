package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))

	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("ReadFile() error = %v, want *AccessError", err)
	}
	if accessErr.Op != "read" {
		t.Errorf("AccessError.Op = %q, want \"read\"", accessErr.Op)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should unwrap to os.ErrNotExist, got %v", err)
	}
}

func TestWriteFileOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteFile(path, [][]string{{"a", "b"}, {"1", "2"}}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	// Re-running replaces the previous output
	if err := WriteFile(path, [][]string{{"a", "b"}, {"3", "4"}}); err != nil {
		t.Fatalf("WriteFile() second run error = %v", err)
	}

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "3" {
		t.Errorf("rows = %v, want the second write's content", rows)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestWriteFileBadDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), [][]string{{"a"}})

	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("WriteFile() error = %v, want *AccessError", err)
	}
}

func TestReadFileSanitizesEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.csv")
	// "caf\xe9" is Latin-1, invalid as UTF-8
	if err := os.WriteFile(path, []byte("a,b\ncaf\xe9,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][0] != "caf�" {
		t.Errorf("cell = %q, want invalid byte replaced", rows[1][0])
	}
}
