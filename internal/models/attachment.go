// ABOUTME: Value types produced while storing an attachment.
// ABOUTME: ResolvedLocation is where it goes, StoredAttachment is what was written.

package models

import "path"

// ResolvedLocation is the absolute directory an attachment is written to and
// the slash-separated prefix used to reference it from Markdown.
type ResolvedLocation struct {
	Dir      string
	Fragment string
}

// StoredAttachment is the result of a successful write.
type StoredAttachment struct {
	FileName string
	Fragment string
	Category MediaCategory
}

// RelativePath joins the fragment and file name the way Markdown references them.
func (s StoredAttachment) RelativePath() string {
	if s.Fragment == "" {
		return s.FileName
	}
	return path.Join(s.Fragment, s.FileName)
}
