// ABOUTME: Media category enumeration for ingested attachments.
// ABOUTME: Categories are derived from MIME or extension, never persisted.

package models

// MediaCategory is the logical kind of an attachment payload.
type MediaCategory int

const (
	Unknown MediaCategory = iota
	Image
	Document
	Audio
	Video
	Archive
)

var categoryNames = map[MediaCategory]string{
	Unknown:  "unknown",
	Image:    "image",
	Document: "document",
	Audio:    "audio",
	Video:    "video",
	Archive:  "archive",
}

func (c MediaCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[Unknown]
}

// Supported reports whether the category maps to a known extension set.
func (c MediaCategory) Supported() bool {
	return c != Unknown
}
