// ABOUTME: Tests for stored attachment values.
// ABOUTME: Validates relative path joining for Markdown references.

package models

import "testing"

func TestStoredAttachmentRelativePath(t *testing.T) {
	tests := []struct {
		name     string
		stored   StoredAttachment
		expected string
	}{
		{
			name:     "bare file name",
			stored:   StoredAttachment{FileName: "report.pdf"},
			expected: "report.pdf",
		},
		{
			name:     "with fragment",
			stored:   StoredAttachment{FileName: "a.png", Fragment: "assets/readme"},
			expected: "assets/readme/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stored.RelativePath(); got != tt.expected {
				t.Errorf("RelativePath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMediaCategoryString(t *testing.T) {
	if Image.String() != "image" {
		t.Errorf("expected 'image', got %q", Image.String())
	}
	if MediaCategory(42).String() != "unknown" {
		t.Errorf("expected out-of-range category to print 'unknown'")
	}
	if Unknown.Supported() {
		t.Error("expected Unknown to be unsupported")
	}
}
