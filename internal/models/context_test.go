// ABOUTME: Tests for the ingestion context and settings.
// ABOUTME: Covers subfolder enablement and document/workspace presence.

package models

import "testing"

func TestSettingsUseSubfolder(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		expected bool
	}{
		{"disabled", Settings{SubfolderEnabled: false, SubfolderName: "assets"}, false},
		{"enabled empty name", Settings{SubfolderEnabled: true, SubfolderName: ""}, false},
		{"enabled blank name", Settings{SubfolderEnabled: true, SubfolderName: "  "}, false},
		{"enabled", Settings{SubfolderEnabled: true, SubfolderName: "assets"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.UseSubfolder(); got != tt.expected {
				t.Errorf("UseSubfolder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestContextPresence(t *testing.T) {
	var empty Context
	if empty.HasDocument() || empty.HasWorkspace() {
		t.Error("expected empty context to have neither document nor workspace")
	}

	ctx := Context{DocumentPath: "/docs/readme.md", WorkspaceRoot: "/proj"}
	if !ctx.HasDocument() || !ctx.HasWorkspace() {
		t.Error("expected document and workspace to be present")
	}
}

func TestCandidateBytes(t *testing.T) {
	c := NewClipboardItem(KindFile, "image/png", StaticBytes([]byte("png")))
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("expected payload 'png', got %q", data)
	}

	p := NewPathCandidate("/tmp/photo.jpg")
	if _, err := p.Bytes(); err != ErrNoPayload {
		t.Errorf("expected ErrNoPayload for path candidate, got %v", err)
	}
	if p.Trigger.String() != "path-drop" {
		t.Errorf("expected trigger 'path-drop', got %q", p.Trigger.String())
	}
}
