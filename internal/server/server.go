// ABOUTME: Local HTTP server for browser paste/drop ingestion and document preview.
// ABOUTME: Wraps a gin engine with graceful shutdown.

package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/mobi/internal/ingest"
	"github.com/harper/mobi/internal/models"
	"github.com/rs/zerolog"
)

const (
	maxUploadBytes  = 256 << 20
	shutdownTimeout = 5 * time.Second
)

// ContextFunc returns the current ingestion context. It is called per request
// so session changes made by the CLI are picked up.
type ContextFunc func() (models.Context, error)

// Server serves the ingestion API, the preview page and attachment files.
type Server struct {
	addr     string
	engine   *gin.Engine
	ingestor *ingest.Ingestor
	context  ContextFunc
	log      zerolog.Logger
}

// New constructs the server with middleware and routes.
func New(addr string, ingestor *ingest.Ingestor, contextFn ContextFunc, log zerolog.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		addr:     addr,
		engine:   engine,
		ingestor: ingestor,
		context:  contextFn,
		log:      log.With().Str("component", "http").Logger(),
	}

	engine.Use(requestID(), requestLogger(s.log))
	engine.SetHTMLTemplate(template.Must(template.New("preview").Parse(previewTemplate)))
	s.registerRoutes()
	return s
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the listener and shuts down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("mobi HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := s.engine.Group("/api")
	api.GET("/context", s.handleContext)
	api.POST("/paste", s.handlePaste)
	api.POST("/drop", s.handleDrop)
	api.POST("/drop-paths", s.handleDropPaths)

	s.engine.GET("/preview", s.handlePreview)
	s.engine.GET("/files/*path", s.handleFile)
}

const previewTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}{{.Name}}{{end}}</title>
<style>body{max-width:46rem;margin:2rem auto;font-family:system-ui,sans-serif;line-height:1.55}img{max-width:100%}</style>
</head>
<body>
{{.Body}}
</body>
</html>
`
