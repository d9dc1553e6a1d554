// ABOUTME: Open, close and workspace commands managing the session context.
// ABOUTME: The ingestion commands read this context on every run.

package main

import (
	"fmt"
	"os"

	"github.com/harper/mobi/internal/session"
	"github.com/harper/mobi/internal/ui"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <path|file-url>",
	Short: "Set the open document",
	Long: `Record a Markdown or text document as the open document. Accepts a path
or a file:// URL as passed by "Open With".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := session.ParseOpenTarget(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("failed to open document: %w", err)
		}
		if err := sessionStore.SetDocument(path); err != nil {
			return err
		}
		fmt.Println(ui.Success("Opened " + path))
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the open document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore.ClearDocument(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Closed document"))
		return nil
	},
}

var workspaceCmd = &cobra.Command{
	Use:   "workspace [dir]",
	Short: "Show or set the workspace root",
	Long:  `Attachments fall back to the workspace root when no document is open.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clearFlag, _ := cmd.Flags().GetBool("clear")

		switch {
		case clearFlag:
			if err := sessionStore.ClearWorkspace(); err != nil {
				return err
			}
			fmt.Println(ui.Success("Cleared workspace"))
		case len(args) == 1:
			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("failed to set workspace: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}
			if err := sessionStore.SetWorkspace(args[0]); err != nil {
				return err
			}
			fmt.Println(ui.Success("Workspace set"))
		default:
			ctx, err := currentContext(cmd)
			if err != nil {
				return err
			}
			if !ctx.HasWorkspace() {
				fmt.Println("(none)")
				return nil
			}
			fmt.Println(ctx.WorkspaceRoot)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where attachments will be stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := currentContext(cmd)
		if err != nil {
			return err
		}
		fmt.Print(ui.FormatContext(ctx))
		return nil
	},
}

func init() {
	workspaceCmd.Flags().Bool("clear", false, "Forget the workspace root")
	rootCmd.AddCommand(openCmd, closeCmd, workspaceCmd, statusCmd)
}
