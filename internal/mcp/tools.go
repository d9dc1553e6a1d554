// ABOUTME: MCP tools for pasting and dropping attachments and previewing documents.
// ABOUTME: Maps the CLI trigger adapters to the MCP tool interface.

package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/mobi/internal/ingest"
	"github.com/harper/mobi/internal/markdown"
	"github.com/harper/mobi/internal/media"
	"github.com/harper/mobi/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// paste_attachment
	s.server.AddTool(&mcp.Tool{
		Name:        "paste_attachment",
		Description: "Store pasted bytes next to the active document under a generated name and return the Markdown reference",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"data_base64": {"type": "string", "description": "Payload bytes, base64 encoded"},
				"mime": {"type": "string", "description": "MIME type of the payload; sniffed when omitted"}
			},
			"required": ["data_base64"]
		}`),
	}, s.handlePasteAttachment)

	// drop_file
	s.server.AddTool(&mcp.Tool{
		Name:        "drop_file",
		Description: "Store a named file blob, keeping its name unless it collides, and return the Markdown reference",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Original file name"},
				"data_base64": {"type": "string", "description": "File bytes, base64 encoded"},
				"mime": {"type": "string", "description": "MIME type; the name's extension is used when omitted"}
			},
			"required": ["name", "data_base64"]
		}`),
	}, s.handleDropFile)

	// drop_paths
	s.server.AddTool(&mcp.Tool{
		Name:        "drop_paths",
		Description: "Copy the first supported file among the given paths next to the active document",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"paths": {"type": "array", "items": {"type": "string"}, "description": "Absolute file paths"}
			},
			"required": ["paths"]
		}`),
	}, s.handleDropPaths)

	// render_preview
	s.server.AddTool(&mcp.Tool{
		Name:        "render_preview",
		Description: "Render a Markdown document to HTML with attachment paths resolved to absolute files",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "Document path; defaults to the active document"}
			}
		}`),
	}, s.handleRenderPreview)

	// get_context
	s.server.AddTool(&mcp.Tool{
		Name:        "get_context",
		Description: "Show the active document, workspace root and subfolder settings",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleGetContext)
}

// Tool handlers.
func (s *Server) handlePasteAttachment(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Data string `json:"data_base64"`
		MIME string `json:"mime"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(params.Data)
	if err != nil {
		return errorResult(fmt.Sprintf("invalid base64 data: %v", err)), nil
	}
	if params.MIME == "" {
		params.MIME = media.Sniff(data)
	}

	return s.runIngest(func(c models.Context) ingest.Outcome {
		return s.ingestor.Paste(c, []models.Candidate{
			models.NewClipboardItem(models.KindFile, params.MIME, models.StaticBytes(data)),
		})
	})
}

func (s *Server) handleDropFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Name string `json:"name"`
		Data string `json:"data_base64"`
		MIME string `json:"mime"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(params.Data)
	if err != nil {
		return errorResult(fmt.Sprintf("invalid base64 data: %v", err)), nil
	}

	return s.runIngest(func(c models.Context) ingest.Outcome {
		return s.ingestor.DropFiles(c, []models.Candidate{
			models.NewBrowserFile(params.Name, params.MIME, models.StaticBytes(data)),
		})
	})
}

func (s *Server) handleDropPaths(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Paths []string `json:"paths"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	return s.runIngest(func(c models.Context) ingest.Outcome {
		return s.ingestor.DropPaths(c, params.Paths)
	})
}

func (s *Server) handleRenderPreview(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Path string `json:"path"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, err
		}
	}

	docPath := params.Path
	if docPath == "" {
		current, err := s.context()
		if err != nil {
			return errorResult(fmt.Sprintf("failed to load session: %v", err)), nil
		}
		if !current.HasDocument() {
			return errorResult("no document open"), nil
		}
		docPath = current.DocumentPath
	}

	source, err := os.ReadFile(docPath) //nolint:gosec // Agent-chosen document
	if err != nil {
		return errorResult(fmt.Sprintf("failed to read document: %v", err)), nil
	}

	docDir := filepath.Dir(docPath)
	preview, err := markdown.Render(source, func(rel string) string {
		return filepath.Join(docDir, filepath.FromSlash(rel))
	})
	if err != nil {
		return errorResult(fmt.Sprintf("failed to render: %v", err)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(preview.HTML)},
		},
	}, nil
}

func (s *Server) handleGetContext(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := s.context()
	if err != nil {
		return errorResult(fmt.Sprintf("failed to load session: %v", err)), nil
	}

	data, _ := json.MarshalIndent(map[string]any{
		"document_path":     current.DocumentPath,
		"workspace_root":    current.WorkspaceRoot,
		"subfolder_enabled": current.Settings.SubfolderEnabled,
		"subfolder_name":    current.Settings.SubfolderName,
	}, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func (s *Server) runIngest(run func(models.Context) ingest.Outcome) (*mcp.CallToolResult, error) {
	current, err := s.context()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load session")
		return errorResult(fmt.Sprintf("failed to load session: %v", err)), nil
	}

	out := run(current)
	s.log.Info().
		Str("ingest_id", out.ID).
		Str("trigger", out.Trigger.String()).
		Str("status", out.Status.String()).
		Msg("tool ingestion finished")
	switch out.Status {
	case ingest.StatusDone:
		data, _ := json.MarshalIndent(map[string]string{
			"fragment":  out.Fragment,
			"file_name": out.Stored.FileName,
			"dir":       out.Dir,
		}, "", "  ")
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(data)},
			},
		}, nil
	case ingest.StatusFailed:
		return errorResult(out.Message), nil
	default:
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "no supported attachment found; nothing was stored"},
			},
		}, nil
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
