// ABOUTME: Parsing of "open with" targets into document paths.
// ABOUTME: Accepts plain paths and file:// URLs for Markdown and text files.

package session

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrUnsupportedDocument is returned for targets that are not Markdown or text.
var ErrUnsupportedDocument = errors.New("session: unsupported document type")

var documentExtensions = []string{".md", ".markdown", ".txt"}

// ParseOpenTarget turns a path or file:// URL into an absolute document path.
func ParseOpenTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("%w: empty target", ErrUnsupportedDocument)
	}

	path := target
	if strings.HasPrefix(target, "file://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", target, err)
		}
		path = u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = "//" + u.Host + u.Path
		}
	}

	if !IsDocument(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDocument, path)
	}
	return filepath.Abs(filepath.FromSlash(path))
}

// IsDocument reports whether path has a Markdown or text extension.
func IsDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range documentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
