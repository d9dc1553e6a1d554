// ABOUTME: Serve command running the local HTTP server.
// ABOUTME: Browser paste/drop endpoints plus a live preview of the open document.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/mobi/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP server",
	Long: `Serve the ingestion API and a preview of the open document.

Endpoints:
  POST /api/paste       multipart clipboard items
  POST /api/drop        multipart dropped files
  POST /api/drop-paths  {"paths": [...]}
  GET  /api/context     current document and workspace
  GET  /preview         rendered open document
  GET  /files/*path     files next to the document`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(addr, ingestor, contextFunc(cmd), logger)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
