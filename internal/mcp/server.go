// ABOUTME: MCP server exposing attachment ingestion to AI agents.
// ABOUTME: Provides tools, a document resource, and a prompt over the ingest pipeline.

package mcp

import (
	"context"

	"github.com/harper/mobi/internal/ingest"
	"github.com/harper/mobi/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// ContextFunc returns the current ingestion context.
type ContextFunc func() (models.Context, error)

type Server struct {
	server   *mcp.Server
	ingestor *ingest.Ingestor
	context  ContextFunc
	log      zerolog.Logger
}

func NewServer(ingestor *ingest.Ingestor, contextFn ContextFunc, log zerolog.Logger) *Server {
	s := &Server{
		ingestor: ingestor,
		context:  contextFn,
		log:      log.With().Str("component", "mcp").Logger(),
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "mobi",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
