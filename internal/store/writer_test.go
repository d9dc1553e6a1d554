// ABOUTME: Tests for the attachment writer and the recording filesystem.
// ABOUTME: Covers successful writes, failure wrapping and overwrite semantics.

package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func TestWriterWritesToDisk(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(NewOSFS(), zerolog.Nop())

	if err := w.Write(dir, "note.txt", []byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "note.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected 'hello', got %q", data)
	}
}

func TestWriterOverwritesExisting(t *testing.T) {
	mem := NewMemFS()
	_ = mem.MkdirAll("/proj", 0755)
	w := NewWriter(mem, zerolog.Nop())

	_ = w.Write("/proj", "a.png", []byte("one"))
	if err := w.Write("/proj", "a.png", []byte("two")); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	data, _ := afero.ReadFile(mem, "/proj/a.png")
	if string(data) != "two" {
		t.Errorf("expected overwrite, got %q", data)
	}
	if mem.Writes() != 2 {
		t.Errorf("expected 2 writes, got %d", mem.Writes())
	}
}

func TestWriterWrapsFailure(t *testing.T) {
	mem := NewMemFS()
	_ = mem.MkdirAll("/proj", 0755)
	mem.FailWrite = map[string]error{"/proj/a.png": errors.New("disk full")}
	w := NewWriter(mem, zerolog.Nop())

	err := w.Write("/proj", "a.png", []byte("x"))
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
}

func TestWriterMissingDirectory(t *testing.T) {
	w := NewWriter(NewOSFS(), zerolog.Nop())

	err := w.Write(filepath.Join(t.TempDir(), "nowhere"), "a.png", []byte("x"))
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected underlying ErrNotExist, got %v", err)
	}
}

func TestRecorderStatAndMkdir(t *testing.T) {
	mem := NewMemFS()
	if err := mem.MkdirAll("/docs/assets/readme", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := mem.MkdirAll("/docs/assets/readme", 0755); err != nil {
		t.Fatalf("MkdirAll should be idempotent: %v", err)
	}

	info, err := mem.Stat("/docs/assets")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected directory")
	}

	if _, err := mem.Stat("/docs/missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if mem.Writes() != 0 {
		t.Errorf("expected no writes, got %d", mem.Writes())
	}
}

func TestRecorderCountsOnlyMutations(t *testing.T) {
	mem := NewMemFS()
	mem.Seed("/src/a.txt", []byte("seeded"))

	if _, err := afero.ReadFile(mem, "/src/a.txt"); err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if mem.Mutations() != 0 {
		t.Fatalf("reads and seeding should not count, got %d", mem.Mutations())
	}

	_ = mem.MkdirAll("/dst", 0755)
	_ = afero.WriteFile(mem, "/dst/b.txt", []byte("b"), 0644)
	if mem.Writes() != 1 || mem.Mutations() != 2 {
		t.Errorf("expected 1 write and 2 mutations, got %d and %d", mem.Writes(), mem.Mutations())
	}

	files := mem.Files("/")
	if len(files) != 2 || files[0] != "/dst/b.txt" || files[1] != "/src/a.txt" {
		t.Errorf("unexpected files %v", files)
	}
}
