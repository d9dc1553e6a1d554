// ABOUTME: Paste command storing a clipboard payload from stdin or a file.
// ABOUTME: Uses the synthetic naming policy like an editor paste.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/harper/mobi/internal/media"
	"github.com/harper/mobi/internal/models"
	"github.com/spf13/cobra"
)

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Store pasted bytes as an attachment",
	Long: `Read a clipboard payload from stdin (or --file) and store it under a
generated name such as image_1700000000123_k3j9x2.png.

The MIME type is detected from the content when --mime is not given.

Examples:
  pbpaste -Prefer png | mobi paste
  mobi paste --file shot.png --mime image/png --append`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mimeFlag, _ := cmd.Flags().GetString("mime")
		fileFlag, _ := cmd.Flags().GetString("file")

		var data []byte
		var err error
		if fileFlag != "" {
			data, err = os.ReadFile(fileFlag) //nolint:gosec // User-specified file path is expected CLI behavior
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		if len(data) == 0 {
			return fmt.Errorf("nothing to paste: payload is empty")
		}

		if mimeFlag == "" {
			mimeFlag = media.Sniff(data)
		}

		ctx, err := currentContext(cmd)
		if err != nil {
			return err
		}

		out := ingestor.Paste(ctx, []models.Candidate{
			models.NewClipboardItem(models.KindFile, mimeFlag, models.StaticBytes(data)),
		})
		return reportOutcome(cmd, ctx, out)
	},
}

func init() {
	pasteCmd.Flags().String("mime", "", "MIME type of the payload")
	pasteCmd.Flags().StringP("file", "f", "", "Read the payload from a file instead of stdin")
	addIngestFlags(pasteCmd)
	rootCmd.AddCommand(pasteCmd)
}
