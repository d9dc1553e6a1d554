// ABOUTME: Persisted session context: the open document and the workspace root.
// ABOUTME: Badger-backed with short-lived opens so the CLI, server and MCP can share it.

package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/harper/mobi/internal/models"
)

var (
	keyDocument  = []byte("session:document")
	keyWorkspace = []byte("session:workspace")
)

const (
	defaultOpenAttempts = 10
	defaultOpenBackoff  = 50 * time.Millisecond
)

// Store holds configuration for KV operations. It does not hold a connection:
// each operation opens the database, runs, and closes it.
type Store struct {
	dir      string
	attempts int
	backoff  time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithOpenRetry sets how often opening a locked database is retried.
func WithOpenRetry(attempts int, backoff time.Duration) Option {
	return func(s *Store) {
		s.attempts = attempts
		s.backoff = backoff
	}
}

// Open prepares a store rooted at dir. The directory is created on first write.
func Open(dir string, opts ...Option) *Store {
	s := &Store{
		dir:      dir,
		attempts: defaultOpenAttempts,
		backoff:  defaultOpenBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Context returns the stored document and workspace combined with settings.
func (s *Store) Context(settings models.Settings) (models.Context, error) {
	ctx := models.Context{Settings: settings}
	err := s.view(func(txn *badger.Txn) error {
		var err error
		if ctx.DocumentPath, err = get(txn, keyDocument); err != nil {
			return err
		}
		ctx.WorkspaceRoot, err = get(txn, keyWorkspace)
		return err
	})
	return ctx, err
}

// SetDocument records path as the open document.
func (s *Store) SetDocument(path string) error {
	return s.set(keyDocument, path)
}

// ClearDocument forgets the open document.
func (s *Store) ClearDocument() error {
	return s.delete(keyDocument)
}

// SetWorkspace records dir as the workspace root.
func (s *Store) SetWorkspace(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	return s.set(keyWorkspace, abs)
}

// ClearWorkspace forgets the workspace root.
func (s *Store) ClearWorkspace() error {
	return s.delete(keyWorkspace)
}

func (s *Store) set(key []byte, value string) error {
	return s.update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(value))
	})
}

func (s *Store) delete(key []byte) error {
	return s.update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func get(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (s *Store) view(fn func(*badger.Txn) error) error {
	return s.do(func(db *badger.DB) error { return db.View(fn) })
}

func (s *Store) update(fn func(*badger.Txn) error) error {
	return s.do(func(db *badger.DB) error { return db.Update(fn) })
}

func (s *Store) do(fn func(*badger.DB) error) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}

// open retries while another process holds the directory lock.
func (s *Store) open() (*badger.DB, error) {
	opts := badger.DefaultOptions(s.dir).WithLogger(nil)

	var lastErr error
	for attempt := 0; attempt < max(s.attempts, 1); attempt++ {
		db, err := badger.Open(opts)
		if err == nil {
			return db, nil
		}
		lastErr = err
		time.Sleep(s.backoff)
	}
	return nil, fmt.Errorf("open session store %s: %w", s.dir, lastErr)
}
