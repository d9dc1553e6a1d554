// ABOUTME: Shared reporting for ingestion commands.
// ABOUTME: Fragment to stdout, status to stderr, optional append to the document.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/harper/mobi/internal/ingest"
	"github.com/harper/mobi/internal/models"
	"github.com/harper/mobi/internal/ui"
	"github.com/spf13/cobra"
)

func reportOutcome(cmd *cobra.Command, ctx models.Context, out ingest.Outcome) error {
	switch out.Status {
	case ingest.StatusFailed:
		return errors.New(out.Message)
	case ingest.StatusSkipped:
		fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatOutcome(out))
		return nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatOutcome(out))

	appendFlag, _ := cmd.Flags().GetBool("append")
	if appendFlag {
		if !ctx.HasDocument() {
			return fmt.Errorf("--append needs an open document")
		}
		if err := appendFragment(ctx.DocumentPath, out.Fragment); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Success("Appended reference to "+ctx.DocumentPath))
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.Fragment)
	return nil
}

// appendFragment adds fragment as its own paragraph at the end of the document.
func appendFragment(path, fragment string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Open document chosen by the user
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	content := strings.TrimRight(string(data), "\n")
	if content != "" {
		content += "\n\n"
	}
	content += fragment + "\n"
	return os.WriteFile(path, []byte(content), 0644) //nolint:gosec // Documents are user-readable
}

func addIngestFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("append", false, "Append the reference to the open document")
}
