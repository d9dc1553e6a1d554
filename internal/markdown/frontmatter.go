// ABOUTME: Front matter handling for documents shown in the preview.
// ABOUTME: Splits a YAML header from the Markdown body.

package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the decoded document header. Only the title is interpreted.
type FrontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// SplitFrontMatter returns the decoded header and the body. Documents
// without a header come back unchanged with an empty FrontMatter.
func SplitFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}
