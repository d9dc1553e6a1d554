// ABOUTME: Show command for displaying a document and its attachments.
// ABOUTME: Renders markdown content with glamour and checks each reference on disk.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/mobi/internal/markdown"
	"github.com/harper/mobi/internal/session"
	"github.com/harper/mobi/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [document]",
	Short: "Show a document",
	Long:  `Display a document with rendered markdown, followed by the attachments it references and whether each exists.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docPath, err := documentArg(cmd, args)
		if err != nil {
			return err
		}

		source, err := os.ReadFile(docPath) //nolint:gosec // User-specified document
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		meta, body, err := markdown.SplitFrontMatter(source)
		if err != nil {
			return err
		}
		refs, err := markdown.References(source)
		if err != nil {
			return err
		}

		title := meta.Title
		if title == "" {
			title = filepath.Base(docPath)
		}
		fmt.Println(ui.Success(title))
		fmt.Print(ui.Separator())

		content, _ := ui.FormatDocument(string(body))
		fmt.Print(content)

		docDir := filepath.Dir(docPath)
		infos := make([]ui.ReferenceInfo, 0, len(refs))
		for _, r := range refs {
			_, statErr := os.Stat(filepath.Join(docDir, filepath.FromSlash(r.Path)))
			infos = append(infos, ui.ReferenceInfo{
				Kind:   string(r.Kind),
				Path:   r.Path,
				Exists: statErr == nil,
			})
		}
		fmt.Print(ui.FormatReferences(infos))
		return nil
	},
}

// documentArg returns the explicit document argument or the open document.
func documentArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return session.ParseOpenTarget(args[0])
	}
	ctx, err := currentContext(cmd)
	if err != nil {
		return "", err
	}
	if !ctx.HasDocument() {
		return "", fmt.Errorf("no document open; run 'mobi open <file>' or pass a path")
	}
	return ctx.DocumentPath, nil
}

func init() {
	rootCmd.AddCommand(showCmd)
}
