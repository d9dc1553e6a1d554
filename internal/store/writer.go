// ABOUTME: Attachment writer that persists payload bytes under a resolved directory.
// ABOUTME: No overwrite protection here; naming handles collisions beforehand.

package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrWriteFailure wraps any error returned while writing attachment bytes.
var ErrWriteFailure = errors.New("store: write failed")

const filePerm = 0644

// Writer writes attachment payloads through an afero.Fs.
type Writer struct {
	fs  afero.Fs
	log zerolog.Logger
}

// NewWriter creates a Writer.
func NewWriter(fsys afero.Fs, log zerolog.Logger) *Writer {
	return &Writer{
		fs:  fsys,
		log: log.With().Str("component", "attachment-writer").Logger(),
	}
}

// Write stores data as dir/fileName in a single call. A failed write leaves
// whatever the filesystem left behind.
func (w *Writer) Write(dir, fileName string, data []byte) error {
	target := filepath.Join(dir, fileName)
	if err := afero.WriteFile(w.fs, target, data, filePerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, target, err)
	}

	w.log.Debug().
		Str("path", target).
		Int("bytes", len(data)).
		Msg("attachment written")
	return nil
}
