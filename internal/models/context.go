// ABOUTME: Read-only ingestion context supplied by the document session.
// ABOUTME: Carries the open document, workspace root and subfolder settings.

package models

import "strings"

// Settings is the user's attachment placement configuration.
type Settings struct {
	SubfolderEnabled bool
	SubfolderName    string
}

// UseSubfolder reports whether attachments should be nested under a subfolder.
func (s Settings) UseSubfolder() bool {
	return s.SubfolderEnabled && strings.TrimSpace(s.SubfolderName) != ""
}

// Context is passed by value into every ingestion call. The core never mutates it.
type Context struct {
	DocumentPath  string
	WorkspaceRoot string
	Settings      Settings
}

func (c Context) HasDocument() bool {
	return strings.TrimSpace(c.DocumentPath) != ""
}

func (c Context) HasWorkspace() bool {
	return strings.TrimSpace(c.WorkspaceRoot) != ""
}
