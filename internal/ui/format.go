// ABOUTME: Terminal UI formatting for mobi output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/mobi/internal/ingest"
	"github.com/harper/mobi/internal/models"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// ReferenceInfo is one attachment reference found in a document.
type ReferenceInfo struct {
	Kind   string
	Path   string
	Exists bool
}

func FormatDocument(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func FormatContext(ctx models.Context) string {
	var sb strings.Builder

	doc := faint("(none)")
	if ctx.HasDocument() {
		doc = bold(ctx.DocumentPath)
	}
	workspace := faint("(none)")
	if ctx.HasWorkspace() {
		workspace = bold(ctx.WorkspaceRoot)
	}
	subfolder := faint("disabled")
	if ctx.Settings.UseSubfolder() {
		subfolder = cyan(ctx.Settings.SubfolderName)
	}

	sb.WriteString(fmt.Sprintf("%s  %s\n", faint("Document: "), doc))
	sb.WriteString(fmt.Sprintf("%s  %s\n", faint("Workspace:"), workspace))
	sb.WriteString(fmt.Sprintf("%s  %s\n", faint("Subfolder:"), subfolder))
	return sb.String()
}

func FormatReferences(refs []ReferenceInfo) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s\n", bold("Attachments:")))
	if len(refs) == 0 {
		sb.WriteString(faint("  none\n"))
		return sb.String()
	}
	for _, r := range refs {
		state := faint("ok")
		if !r.Exists {
			state = yellow("missing")
		}
		sb.WriteString(fmt.Sprintf("  %s  %s %s\n",
			faint(fmt.Sprintf("%-5s", r.Kind)),
			r.Path,
			faint("[")+state+faint("]")))
	}
	return sb.String()
}

// FormatOutcome renders an ingestion result. Skipped events render as a
// faint notice since nothing was stored.
func FormatOutcome(out ingest.Outcome) string {
	switch out.Status {
	case ingest.StatusDone:
		return Success(fmt.Sprintf("Saved %s %s", bold(out.Stored.FileName), faint("→ "+out.Dir)))
	case ingest.StatusFailed:
		return Error(out.Message)
	default:
		return faint("Nothing to attach: no supported file in " + out.Trigger.String())
	}
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
