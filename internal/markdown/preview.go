// ABOUTME: Preview renderer turning documents into HTML with resolvable attachments.
// ABOUTME: Relative image and link destinations are rewritten through a resolver.

package markdown

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DestinationResolver maps a relative, unescaped attachment path to the URL
// the preview should load.
type DestinationResolver func(rel string) string

// Preview is a rendered document.
type Preview struct {
	Title string
	HTML  []byte
}

// Render strips front matter and converts the body to HTML. A nil resolver
// leaves destinations untouched.
func Render(source []byte, resolve DestinationResolver) (*Preview, error) {
	meta, body, err := SplitFrontMatter(source)
	if err != nil {
		return nil, err
	}

	parserOptions := []parser.Option{parser.WithAutoHeadingID()}
	if resolve != nil {
		parserOptions = append(parserOptions,
			parser.WithASTTransformers(util.Prioritized(&destinationRewriter{resolve: resolve}, 100)))
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
		goldmark.WithParserOptions(parserOptions...),
	)

	var buf bytes.Buffer
	if err := engine.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return &Preview{Title: meta.Title, HTML: buf.Bytes()}, nil
}

// ReferenceKind distinguishes image embeds from links.
type ReferenceKind string

const (
	KindEmbed ReferenceKind = "embed"
	KindLink  ReferenceKind = "link"
)

// Reference is a relative destination found in a document.
type Reference struct {
	Kind ReferenceKind
	Path string
}

// References lists relative image and link destinations in document order.
func References(source []byte) ([]Reference, error) {
	_, body, err := SplitFrontMatter(source)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(body))

	var refs []Reference
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			if rel, ok := RelativeDestination(node.Destination); ok {
				refs = append(refs, Reference{Kind: KindEmbed, Path: rel})
			}
		case *ast.Link:
			if rel, ok := RelativeDestination(node.Destination); ok {
				refs = append(refs, Reference{Kind: KindLink, Path: rel})
			}
		}
		return ast.WalkContinue, nil
	})
	return refs, err
}

// RelativeDestination reports whether dest points at a file relative to the
// document and returns its path, unescaped once. Query and fragment are dropped.
func RelativeDestination(dest []byte) (string, bool) {
	s := strings.TrimSpace(string(dest))
	if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "/") || strings.HasPrefix(s, `\`) {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	rel := strings.TrimPrefix(u.Path, "./")
	if rel == "" {
		return "", false
	}
	return rel, true
}

type destinationRewriter struct {
	resolve DestinationResolver
}

func (r *destinationRewriter) Transform(node *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch target := n.(type) {
		case *ast.Image:
			if rel, ok := RelativeDestination(target.Destination); ok {
				target.Destination = []byte(r.resolve(rel))
			}
		case *ast.Link:
			if rel, ok := RelativeDestination(target.Destination); ok {
				target.Destination = []byte(r.resolve(rel))
			}
		}
		return ast.WalkContinue, nil
	})
}
