// ABOUTME: Result of one paste or drop event and the messages shown to the user.
// ABOUTME: Errors stop here; callers get an Outcome, never a returned error.

package ingest

import (
	"errors"
	"fmt"

	"github.com/harper/mobi/internal/location"
	"github.com/harper/mobi/internal/models"
	"github.com/harper/mobi/internal/naming"
	"github.com/harper/mobi/internal/store"
)

// ErrReadFailure wraps errors reading a candidate's bytes.
var ErrReadFailure = errors.New("ingest: cannot read source")

// Status is the terminal state of an ingestion.
type Status int

const (
	// StatusSkipped means no candidate qualified; default handling should proceed.
	StatusSkipped Status = iota
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Outcome describes what happened to a trigger event.
type Outcome struct {
	ID       string
	Trigger  models.Trigger
	Status   Status
	Fragment string
	Stored   models.StoredAttachment
	Dir      string
	Message  string
	Err      error
}

// Handled reports whether the caller should suppress its default paste or
// drop handling. A matched candidate that failed still counts: the user sees
// the failure message instead.
func (o Outcome) Handled() bool {
	return o.Status != StatusSkipped
}

// OK reports whether a fragment was produced.
func (o Outcome) OK() bool {
	return o.Status == StatusDone
}

func failed(trigger models.Trigger, source string, err error) Outcome {
	return Outcome{
		Trigger: trigger,
		Status:  StatusFailed,
		Message: userMessage(source, err),
		Err:     err,
	}
}

func userMessage(source string, err error) string {
	switch {
	case errors.Is(err, location.ErrNoLocationAvailable):
		return "Open a document or set a workspace folder before adding attachments."
	case errors.Is(err, location.ErrDirectoryCreation):
		return fmt.Sprintf("Could not create the attachment folder: %v", err)
	case errors.Is(err, naming.ErrProbeFailure):
		return fmt.Sprintf("Could not check the attachment folder for %s: %v", source, err)
	case errors.Is(err, store.ErrWriteFailure):
		return fmt.Sprintf("Could not save %s: %v", source, err)
	case errors.Is(err, ErrReadFailure):
		return fmt.Sprintf("Could not read %s: %v", source, err)
	default:
		return fmt.Sprintf("Could not add %s: %v", source, err)
	}
}
