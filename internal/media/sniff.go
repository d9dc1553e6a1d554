// ABOUTME: Content sniffing for payloads that arrive without a usable MIME type.
// ABOUTME: Also holds the clipboard media-prefix filter used by the paste trigger.

package media

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MediaPrefixes are the MIME prefixes a clipboard item must carry to be
// considered an attachment rather than text.
var MediaPrefixes = []string{"image/", "audio/", "video/", "application/", "text/"}

// HasMediaPrefix reports whether mime starts with one of MediaPrefixes.
func HasMediaPrefix(mime string) bool {
	mime = NormalizeMIME(mime)
	for _, prefix := range MediaPrefixes {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}

// Sniff detects the MIME type of data from its leading bytes.
func Sniff(data []byte) string {
	return NormalizeMIME(mimetype.Detect(data).String())
}

// ClassifyBytes classifies by declared MIME first, then by sniffed content.
// The sniffed result only applies when the declared MIME is not in the table.
func ClassifyBytes(declared string, data []byte) Classification {
	if c := Classify(declared, ""); c.Category.Supported() {
		return c
	}
	detected := mimetype.Detect(data)
	if c := Classify(detected.String(), detected.Extension()); c.Category.Supported() {
		return c
	}
	return Classification{}
}

// SniffExtension returns the extension mimetype associates with data, without
// the dot. Unrecognized content yields "".
func SniffExtension(data []byte) string {
	return NormalizeExtension(mimetype.Detect(data).Extension())
}
