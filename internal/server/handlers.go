// ABOUTME: HTTP handlers adapting browser paste and drop events into candidates.
// ABOUTME: Also serves the preview page and files under the document base.

package server

import (
	"errors"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/harper/mobi/internal/ingest"
	"github.com/harper/mobi/internal/location"
	"github.com/harper/mobi/internal/markdown"
	"github.com/harper/mobi/internal/models"
)

type ingestResponse struct {
	Handled  bool   `json:"handled"`
	Fragment string `json:"fragment,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Message  string `json:"message,omitempty"`
	IngestID string `json:"ingest_id"`
}

type contextResponse struct {
	DocumentPath     string `json:"document_path"`
	WorkspaceRoot    string `json:"workspace_root"`
	SubfolderEnabled bool   `json:"subfolder_enabled"`
	SubfolderName    string `json:"subfolder_name"`
}

type dropPathsRequest struct {
	Paths []string `json:"paths" binding:"required"`
}

func (s *Server) handleContext(c *gin.Context) {
	ctx, err := s.context()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contextResponse{
		DocumentPath:     ctx.DocumentPath,
		WorkspaceRoot:    ctx.WorkspaceRoot,
		SubfolderEnabled: ctx.Settings.SubfolderEnabled,
		SubfolderName:    ctx.Settings.SubfolderName,
	})
}

// handlePaste treats file parts as file-like clipboard items and plain
// fields as string items, in the order they were sent.
func (s *Server) handlePaste(c *gin.Context) {
	items, err := readParts(c, func(p *multipart.Part, data []byte) models.Candidate {
		if p.FileName() == "" {
			return models.NewClipboardItem(models.KindString, "text/plain", models.StaticBytes(data))
		}
		return models.NewClipboardItem(models.KindFile, p.Header.Get("Content-Type"), models.StaticBytes(data))
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, func(ctx models.Context) ingest.Outcome {
		return s.ingestor.Paste(ctx, items)
	})
}

func (s *Server) handleDrop(c *gin.Context) {
	files, err := readParts(c, func(p *multipart.Part, data []byte) models.Candidate {
		if p.FileName() == "" {
			return models.Candidate{}
		}
		return models.NewBrowserFile(p.FileName(), p.Header.Get("Content-Type"), models.StaticBytes(data))
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, func(ctx models.Context) ingest.Outcome {
		return s.ingestor.DropFiles(ctx, files)
	})
}

// handleDropPaths copies arbitrary local files, so it only accepts
// same-origin JSON requests.
func (s *Server) handleDropPaths(c *gin.Context) {
	if c.ContentType() != binding.MIMEJSON {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "expected " + binding.MIMEJSON})
		return
	}
	if !sameOrigin(c.Request) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cross-origin request refused"})
		return
	}

	var req dropPathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, func(ctx models.Context) ingest.Outcome {
		return s.ingestor.DropPaths(ctx, req.Paths)
	})
}

func (s *Server) respond(c *gin.Context, run func(models.Context) ingest.Outcome) {
	ctx, err := s.context()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := run(ctx)
	resp := ingestResponse{
		Handled:  out.Handled(),
		Fragment: out.Fragment,
		FileName: out.Stored.FileName,
		Message:  out.Message,
		IngestID: out.ID,
	}

	switch {
	case out.OK() || !out.Handled():
		c.JSON(http.StatusOK, resp)
	case errors.Is(out.Err, location.ErrNoLocationAvailable):
		c.JSON(http.StatusUnprocessableEntity, resp)
	default:
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// readParts streams the multipart body so the original part order survives.
// Parts for which build returns a zero Candidate are dropped.
func readParts(c *gin.Context, build func(*multipart.Part, []byte) models.Candidate) ([]models.Candidate, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	reader, err := c.Request.MultipartReader()
	if err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return candidates, nil
		}
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
		if cand := build(part, data); cand.Load != nil {
			candidates = append(candidates, cand)
		}
	}
}

func (s *Server) handlePreview(c *gin.Context) {
	ctx, err := s.context()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	if !ctx.HasDocument() {
		c.String(http.StatusNotFound, "no document open")
		return
	}

	source, err := os.ReadFile(ctx.DocumentPath)
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}

	preview, err := markdown.Render(source, FileURL)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.HTML(http.StatusOK, "preview", gin.H{
		"Title": preview.Title,
		"Name":  filepath.Base(ctx.DocumentPath),
		"Body":  template.HTML(preview.HTML), //nolint:gosec // goldmark output with raw HTML disabled
	})
}

// FileURL maps a document-relative attachment path to its /files URL.
func FileURL(rel string) string {
	return (&url.URL{Path: "/files/" + strings.TrimPrefix(path.Clean("/"+rel), "/")}).EscapedPath()
}

func (s *Server) handleFile(c *gin.Context) {
	ctx, err := s.context()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	base, ok := baseDir(ctx)
	if !ok {
		c.String(http.StatusNotFound, "no document open and no workspace root set")
		return
	}

	full, ok := containedPath(base, c.Param("path"))
	if !ok {
		c.String(http.StatusForbidden, "path escapes the document folder")
		return
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.File(full)
}

func baseDir(ctx models.Context) (string, bool) {
	switch {
	case ctx.HasDocument():
		return filepath.Dir(ctx.DocumentPath), true
	case ctx.HasWorkspace():
		return filepath.Clean(ctx.WorkspaceRoot), true
	default:
		return "", false
	}
}

// sameOrigin accepts requests without an Origin header, which browsers always
// send on cross-origin POSTs.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// containedPath joins rel onto base and rejects results outside base.
func containedPath(base, rel string) (string, bool) {
	rel = strings.TrimPrefix(filepath.FromSlash(rel), string(filepath.Separator))
	if rel == "" {
		return "", false
	}
	full := filepath.Join(base, rel)
	within, err := filepath.Rel(base, full)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
