// ABOUTME: Filesystem seam used by the ingestion pipeline, built on afero.
// ABOUTME: Recorder wraps any afero.Fs to count mutations and inject failures.

package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// NewOSFS returns the real filesystem.
func NewOSFS() afero.Fs {
	return afero.NewOsFs()
}

// Recorder is an afero.Fs that counts write and mkdir calls so callers can
// assert that nothing was written. Reads pass through uncounted.
type Recorder struct {
	afero.Fs

	mu     sync.Mutex
	writes int
	mkdirs int

	// FailWrite, FailMkdir and FailStat inject errors for the given cleaned paths.
	FailWrite map[string]error
	FailMkdir map[string]error
	FailStat  map[string]error
}

// NewMemFS creates a Recorder over an empty in-memory filesystem.
func NewMemFS() *Recorder {
	return Record(afero.NewMemMapFs())
}

// Record wraps fsys.
func Record(fsys afero.Fs) *Recorder {
	return &Recorder{Fs: fsys}
}

func (r *Recorder) Create(name string) (afero.File, error) {
	return r.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (r *Recorder) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		if err := r.count(&r.writes, r.FailWrite, name); err != nil {
			return nil, &os.PathError{Op: "open", Path: name, Err: err}
		}
	}
	return r.Fs.OpenFile(name, flag, perm)
}

func (r *Recorder) Mkdir(name string, perm os.FileMode) error {
	if err := r.count(&r.mkdirs, r.FailMkdir, name); err != nil {
		return &os.PathError{Op: "mkdir", Path: name, Err: err}
	}
	return r.Fs.Mkdir(name, perm)
}

func (r *Recorder) MkdirAll(path string, perm os.FileMode) error {
	if err := r.count(&r.mkdirs, r.FailMkdir, path); err != nil {
		return &os.PathError{Op: "mkdir", Path: path, Err: err}
	}
	return r.Fs.MkdirAll(path, perm)
}

func (r *Recorder) Stat(name string) (os.FileInfo, error) {
	if err := r.FailStat[filepath.Clean(name)]; err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return r.Fs.Stat(name)
}

func (r *Recorder) count(counter *int, failures map[string]error, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*counter++
	return failures[filepath.Clean(name)]
}

// Seed places a file and its parent directories without counting as a write.
func (r *Recorder) Seed(name string, data []byte) {
	_ = r.Fs.MkdirAll(filepath.Dir(name), 0755)
	_ = afero.WriteFile(r.Fs, name, data, 0644)
}

// Writes returns how many files were opened for writing.
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// Mutations returns how many write and mkdir calls were made.
func (r *Recorder) Mutations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes + r.mkdirs
}

// Files lists regular file paths under prefix in lexical order.
func (r *Recorder) Files(prefix string) []string {
	var out []string
	_ = afero.Walk(r.Fs, string(filepath.Separator), func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
		return nil
	})
	return out
}
