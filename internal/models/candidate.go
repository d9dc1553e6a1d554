// ABOUTME: Ingestible candidate produced by the paste and drop trigger adapters.
// ABOUTME: A single tagged variant so the pipeline is written once for all triggers.

package models

import "errors"

// Trigger identifies which gesture produced a candidate.
type Trigger int

const (
	TriggerPaste Trigger = iota
	TriggerBrowserDrop
	TriggerPathDrop
)

func (t Trigger) String() string {
	switch t {
	case TriggerPaste:
		return "paste"
	case TriggerBrowserDrop:
		return "browser-drop"
	case TriggerPathDrop:
		return "path-drop"
	default:
		return "unknown"
	}
}

// ItemKind mirrors the clipboard item kind: only file items carry payloads.
type ItemKind int

const (
	KindFile ItemKind = iota
	KindString
)

var ErrNoPayload = errors.New("candidate has no payload")

// Candidate is one item of a paste or drop event. Byte-carrying candidates
// (clipboard items, browser files) set Load; path candidates set SourcePath.
type Candidate struct {
	Trigger    Trigger
	Kind       ItemKind
	MIME       string
	Name       string
	SourcePath string
	Load       func() ([]byte, error)
}

// NewClipboardItem creates a paste candidate for a typed clipboard item.
func NewClipboardItem(kind ItemKind, mime string, load func() ([]byte, error)) Candidate {
	return Candidate{Trigger: TriggerPaste, Kind: kind, MIME: mime, Load: load}
}

// NewBrowserFile creates a candidate for a file blob dropped into the page.
func NewBrowserFile(name, mime string, load func() ([]byte, error)) Candidate {
	return Candidate{Trigger: TriggerBrowserDrop, Kind: KindFile, MIME: mime, Name: name, Load: load}
}

// NewPathCandidate creates a candidate for an OS-level dropped path.
func NewPathCandidate(path string) Candidate {
	return Candidate{Trigger: TriggerPathDrop, Kind: KindFile, SourcePath: path}
}

// Bytes materializes the candidate payload. Path candidates are read by the caller.
func (c Candidate) Bytes() ([]byte, error) {
	if c.Load == nil {
		return nil, ErrNoPayload
	}
	return c.Load()
}

// StaticBytes wraps an in-memory payload as a loader.
func StaticBytes(data []byte) func() ([]byte, error) {
	return func() ([]byte, error) { return data, nil }
}
