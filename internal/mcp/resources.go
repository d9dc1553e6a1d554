// ABOUTME: MCP resources exposing Markdown documents with their attachment list.
// ABOUTME: Allows AI agents to read a document via the mobi:// URI scheme.

package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/mobi/internal/markdown"
	"github.com/harper/mobi/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const documentURIPrefix = "mobi://document/"

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: "mobi://document/{path}",
			Name:        "Document",
			Description: "Read a Markdown document by absolute path",
			MIMEType:    "text/markdown",
		},
		s.handleReadResource,
	)
}

func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	// Parse URI: mobi://document/{path}
	rest, ok := strings.CutPrefix(req.Params.URI, documentURIPrefix)
	if !ok || rest == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}
	docPath := filepath.FromSlash("/" + strings.TrimPrefix(rest, "/"))
	if !session.IsDocument(docPath) {
		return nil, fmt.Errorf("%w: %s", session.ErrUnsupportedDocument, docPath)
	}

	source, err := os.ReadFile(docPath) //nolint:gosec // Path restricted to document extensions
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	refs, err := markdown.References(source)
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	content := string(source)
	if len(refs) > 0 {
		var sb strings.Builder
		sb.WriteString("\n\n<!-- attachments:\n")
		for _, r := range refs {
			sb.WriteString(fmt.Sprintf("  %s %s\n", r.Kind, r.Path))
		}
		sb.WriteString("-->\n")
		content += sb.String()
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
