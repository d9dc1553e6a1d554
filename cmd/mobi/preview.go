// ABOUTME: Preview command exporting a document as standalone HTML.
// ABOUTME: Attachment references resolve to absolute file paths.

package main

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/harper/mobi/internal/markdown"
	"github.com/harper/mobi/internal/ui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [document]",
	Short: "Render a document to HTML",
	Long:  `Render a document to HTML with attachment paths resolved, to stdout or --output.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")

		docPath, err := documentArg(cmd, args)
		if err != nil {
			return err
		}
		source, err := os.ReadFile(docPath) //nolint:gosec // User-specified document
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		docDir := filepath.Dir(docPath)
		preview, err := markdown.Render(source, func(rel string) string {
			return filepath.ToSlash(filepath.Join(docDir, filepath.FromSlash(rel)))
		})
		if err != nil {
			return err
		}

		title := preview.Title
		if title == "" {
			title = filepath.Base(docPath)
		}

		var buf bytes.Buffer
		fmt.Fprintf(&buf, "<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
		buf.Write(preview.HTML)
		buf.WriteString("</body>\n</html>\n")

		if outputPath == "" || outputPath == "-" {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil { //nolint:gosec // Exported HTML is user-readable
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wrote preview to %s", outputPath)))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(previewCmd)
}
