// ABOUTME: Markdown reference builder for stored attachments.
// ABOUTME: Images become bare embeds, everything else becomes a named link.

package markdown

import (
	"strings"

	"github.com/harper/mobi/internal/models"
)

// BuildReference renders the fragment inserted at the cursor. Images embed
// without alt text; other categories link with displayName as the text.
func BuildReference(fragment, fileName, displayName string, category models.MediaCategory) string {
	dest := Destination(JoinFragment(fragment, fileName))
	if category == models.Image {
		return "![](" + dest + ")"
	}
	return "[" + escapeLinkText(displayName) + "](" + dest + ")"
}

// BuildFor renders the reference for a stored attachment.
func BuildFor(stored models.StoredAttachment, displayName string) string {
	return BuildReference(stored.Fragment, stored.FileName, displayName, stored.Category)
}

// JoinFragment joins a path fragment and a file name with a forward slash.
func JoinFragment(fragment, fileName string) string {
	return models.StoredAttachment{Fragment: fragment, FileName: fileName}.RelativePath()
}

// Destination percent-encodes the characters a URL parser would read as an
// escape, query or fragment, and wraps paths CommonMark would otherwise split
// in angle brackets. RelativeDestination reverses it.
func Destination(rel string) string {
	rel = destinationEscaper.Replace(rel)
	if first, _, _ := strings.Cut(rel, "/"); strings.Contains(first, ":") {
		rel = "./" + rel
	}
	if strings.ContainsAny(rel, " \t()") {
		return "<" + rel + ">"
	}
	return rel
}

var destinationEscaper = strings.NewReplacer(
	"%", "%25",
	"#", "%23",
	"?", "%3F",
	"<", "%3C",
	">", "%3E",
)

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)

func escapeLinkText(text string) string {
	return linkTextEscaper.Replace(text)
}
