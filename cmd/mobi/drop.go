// ABOUTME: Drop command copying dropped files next to the document.
// ABOUTME: Path drops by default, browser-style blob drops with --browser.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/mobi/internal/models"
	"github.com/spf13/cobra"
)

var dropCmd = &cobra.Command{
	Use:   "drop <path>...",
	Short: "Attach the first supported file among the given paths",
	Long: `Copy the first file with a supported extension into the attachment folder,
keeping its name. When a file of that name already exists, a timestamp is
appended (photo.jpg becomes photo_1700000000123.jpg). Remaining paths are
ignored.

With --browser each path is treated as a file blob dropped into a page:
its MIME type (--mime) is checked before its extension.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		browserFlag, _ := cmd.Flags().GetBool("browser")

		ctx, err := currentContext(cmd)
		if err != nil {
			return err
		}

		if !browserFlag {
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				paths = append(paths, abs)
			}
			return reportOutcome(cmd, ctx, ingestor.DropPaths(ctx, paths))
		}

		mimeFlag, _ := cmd.Flags().GetString("mime")
		nameFlag, _ := cmd.Flags().GetString("name")
		if nameFlag != "" && len(args) > 1 {
			return fmt.Errorf("--name only applies to a single file")
		}

		files := make([]models.Candidate, 0, len(args))
		for _, arg := range args {
			name := filepath.Base(arg)
			if cmd.Flags().Changed("name") {
				name = nameFlag
			}
			files = append(files, models.NewBrowserFile(name, mimeFlag, loadFile(arg)))
		}
		return reportOutcome(cmd, ctx, ingestor.DropFiles(ctx, files))
	},
}

func loadFile(path string) func() ([]byte, error) {
	return func() ([]byte, error) {
		return os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	}
}

func init() {
	dropCmd.Flags().Bool("browser", false, "Treat paths as browser file blobs")
	dropCmd.Flags().String("mime", "", "MIME type for --browser blobs")
	dropCmd.Flags().String("name", "", "File name for a --browser blob (empty for a nameless blob)")
	addIngestFlags(dropCmd)
	rootCmd.AddCommand(dropCmd)
}
