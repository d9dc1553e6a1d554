// ABOUTME: Root command wiring config, logging, session and the ingestor.
// ABOUTME: Subcommands share these through package-level state.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/mobi/internal/config"
	"github.com/harper/mobi/internal/ingest"
	"github.com/harper/mobi/internal/logging"
	"github.com/harper/mobi/internal/models"
	"github.com/harper/mobi/internal/session"
	"github.com/harper/mobi/internal/store"
	"github.com/harper/mobi/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg          *config.Config
	logger       zerolog.Logger
	sessionStore *session.Store
	ingestor     *ingest.Ingestor
)

var rootCmd = &cobra.Command{
	Use:   "mobi",
	Short: "Attach files to Markdown documents",
	Long: `mobi stores pasted and dropped files next to your Markdown document
and prints the reference to insert.

Attachments go to <document dir>/<subfolder>/<document name>/ when a document
is open, or to <workspace>/<subfolder>/ otherwise.`,
	Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = logging.New(cfg.Log)

		sessionPath, _ := cmd.Flags().GetString("session")
		if sessionPath == "" {
			sessionPath = cfg.Session.Path
		}
		sessionStore = session.Open(sessionPath)

		ingestor = ingest.New(store.NewOSFS(), ingest.WithLogger(logger))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("session", "", "Session store directory (default from config)")
	rootCmd.PersistentFlags().String("doc", "", "Document to attach to, overriding the open document")
	rootCmd.PersistentFlags().String("workspace", "", "Workspace root, overriding the stored one")
}

// Execute runs the root command and prints any error.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		return err
	}
	return nil
}

// currentContext reads the session and applies --doc and --workspace.
func currentContext(cmd *cobra.Command) (models.Context, error) {
	ctx, err := sessionStore.Context(cfg.Settings())
	if err != nil {
		return models.Context{}, fmt.Errorf("failed to load session: %w", err)
	}

	if doc, _ := cmd.Flags().GetString("doc"); doc != "" {
		path, err := session.ParseOpenTarget(doc)
		if err != nil {
			return models.Context{}, err
		}
		ctx.DocumentPath = path
	}
	if workspace, _ := cmd.Flags().GetString("workspace"); workspace != "" {
		abs, err := filepath.Abs(workspace)
		if err != nil {
			return models.Context{}, err
		}
		ctx.WorkspaceRoot = abs
	}
	return ctx, nil
}

// contextFunc adapts currentContext for the long-running servers.
func contextFunc(cmd *cobra.Command) func() (models.Context, error) {
	return func() (models.Context, error) {
		return currentContext(cmd)
	}
}
