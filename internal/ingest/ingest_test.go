// ABOUTME: Tests for the ingestion orchestrator.
// ABOUTME: Drives paste, browser drop and path drop against an in-memory filesystem.

package ingest

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/harper/mobi/internal/location"
	"github.com/harper/mobi/internal/models"
	"github.com/harper/mobi/internal/naming"
	"github.com/harper/mobi/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestIngestor(fsys afero.Fs) *Ingestor {
	return New(fsys,
		WithNamingOptions(
			naming.WithClock(func() time.Time { return time.UnixMilli(1700000000123) }),
			naming.WithRandom(func(int) int { return 10 }),
		),
		WithIDGenerator(func() string { return "test-id" }),
	)
}

func withSubfolder(name string) models.Settings {
	return models.Settings{SubfolderEnabled: true, SubfolderName: name}
}

func TestPasteImageIntoDocumentSubfolder(t *testing.T) {
	fsys := store.NewMemFS()
	in := New(fsys)
	ctx := models.Context{DocumentPath: "/docs/readme.md", Settings: withSubfolder("assets")}

	out := in.Paste(ctx, []models.Candidate{
		models.NewClipboardItem(models.KindFile, "image/png", models.StaticBytes(pngBytes)),
	})

	require.Equal(t, StatusDone, out.Status, out.Message)
	assert.True(t, out.Handled())
	assert.Equal(t, "/docs/assets/readme", out.Dir)
	assert.Regexp(t, regexp.MustCompile(`^!\[\]\(assets/readme/image_\d+_[0-9a-z]{6}\.png\)$`), out.Fragment)

	files := fsys.Files("/docs/assets/readme/")
	require.Len(t, files, 1)
	data, err := afero.ReadFile(fsys, files[0])
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestBrowserDropPreservesNameWithoutSubfolder(t *testing.T) {
	fsys := store.NewMemFS()
	in := newTestIngestor(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj"}

	out := in.DropFiles(ctx, []models.Candidate{
		models.NewBrowserFile("report.pdf", "application/pdf", models.StaticBytes([]byte("%PDF-1.4"))),
	})

	require.Equal(t, StatusDone, out.Status, out.Message)
	assert.Equal(t, "/proj", out.Dir)
	assert.Equal(t, "[report](report.pdf)", out.Fragment)
	assert.Equal(t, []string{"/proj/report.pdf"}, fsys.Files("/proj/"))
}

func TestPathDropAvoidsCollision(t *testing.T) {
	fsys := store.NewMemFS()
	fsys.Seed("/tmp/photo.jpg", []byte("new"))
	fsys.Seed("/proj/assets/photo.jpg", []byte("old"))
	in := newTestIngestor(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj", Settings: withSubfolder("assets")}

	out := in.DropPaths(ctx, []string{"/tmp/photo.jpg"})

	require.Equal(t, StatusDone, out.Status, out.Message)
	assert.Equal(t, "photo_1700000000123.jpg", out.Stored.FileName)
	assert.Equal(t, "![](assets/photo_1700000000123.jpg)", out.Fragment)

	old, err := afero.ReadFile(fsys, "/proj/assets/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), old)
}

func TestSecondDropOfSameNameNeverOverwrites(t *testing.T) {
	fsys := store.NewMemFS()
	fsys.Seed("/src/a/notes.pdf", []byte("first"))
	fsys.Seed("/src/b/notes.pdf", []byte("second"))
	in := New(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj"}

	first := in.DropPaths(ctx, []string{"/src/a/notes.pdf"})
	second := in.DropPaths(ctx, []string{"/src/b/notes.pdf"})

	require.Equal(t, StatusDone, first.Status)
	require.Equal(t, StatusDone, second.Status)
	assert.NotEqual(t, first.Stored.FileName, second.Stored.FileName)
	assert.Equal(t, "[notes](notes.pdf)", first.Fragment)

	data, err := afero.ReadFile(fsys, "/proj/notes.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
}

func TestPasteWithoutLocationWritesNothing(t *testing.T) {
	fsys := store.NewMemFS()
	in := New(fsys)

	out := in.Paste(models.Context{Settings: withSubfolder("assets")}, []models.Candidate{
		models.NewClipboardItem(models.KindFile, "image/png", models.StaticBytes(pngBytes)),
	})

	assert.Equal(t, StatusFailed, out.Status)
	assert.Empty(t, out.Fragment)
	assert.NotEmpty(t, out.Message)
	assert.True(t, errors.Is(out.Err, location.ErrNoLocationAvailable))
	assert.Zero(t, fsys.Mutations())
}

func TestNoLocationAbortsEveryTrigger(t *testing.T) {
	fsys := store.NewMemFS()
	fsys.Seed("/tmp/a.png", pngBytes)
	in := New(fsys)

	outcomes := []Outcome{
		in.DropFiles(models.Context{}, []models.Candidate{
			models.NewBrowserFile("a.png", "image/png", models.StaticBytes(pngBytes)),
		}),
		in.DropPaths(models.Context{}, []string{"/tmp/a.png"}),
	}
	for _, out := range outcomes {
		assert.Equal(t, StatusFailed, out.Status)
		assert.ErrorIs(t, out.Err, location.ErrNoLocationAvailable)
	}
	assert.Zero(t, fsys.Mutations())
}

func TestPasteSkipsWhenNothingQualifies(t *testing.T) {
	fsys := store.NewMemFS()
	in := New(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj"}

	out := in.Paste(ctx, []models.Candidate{
		models.NewClipboardItem(models.KindString, "text/plain", models.StaticBytes([]byte("hello"))),
		models.NewClipboardItem(models.KindFile, "x-custom/thing", models.StaticBytes([]byte("?"))),
	})

	assert.Equal(t, StatusSkipped, out.Status)
	assert.False(t, out.Handled())
	assert.Empty(t, out.Fragment)
	assert.Zero(t, fsys.Mutations())
}

func TestPasteTakesFirstMatchOnly(t *testing.T) {
	fsys := store.NewMemFS()
	in := newTestIngestor(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj"}

	out := in.Paste(ctx, []models.Candidate{
		models.NewClipboardItem(models.KindString, "text/html", models.StaticBytes([]byte("<b>"))),
		models.NewClipboardItem(models.KindFile, "application/pdf", models.StaticBytes([]byte("%PDF-1.4"))),
		models.NewClipboardItem(models.KindFile, "image/png", models.StaticBytes(pngBytes)),
	})

	require.Equal(t, StatusDone, out.Status, out.Message)
	assert.Equal(t, "[file_1700000000123_aaaaaa](file_1700000000123_aaaaaa.pdf)", out.Fragment)
	assert.Equal(t, 1, fsys.Writes())
}

func TestPasteSniffsGenericMIME(t *testing.T) {
	fsys := store.NewMemFS()
	in := newTestIngestor(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj"}

	out := in.Paste(ctx, []models.Candidate{
		models.NewClipboardItem(models.KindFile, "application/octet-stream", models.StaticBytes(pngBytes)),
	})

	require.Equal(t, StatusDone, out.Status, out.Message)
	assert.Equal(t, models.Image, out.Stored.Category)
	assert.Equal(t, "![](image_1700000000123_aaaaaa.png)", out.Fragment)
}

func TestBrowserDropFallsBackToExtension(t *testing.T) {
	fsys := store.NewMemFS()
	in := New(fsys)
	ctx := models.Context{DocumentPath: "/docs/trip.md", Settings: withSubfolder("assets")}

	out := in.DropFiles(ctx, []models.Candidate{
		models.NewBrowserFile("setup.exe", "application/x-msdownload", models.StaticBytes([]byte("MZ"))),
		models.NewBrowserFile("song.mp3", "", models.StaticBytes([]byte("ID3"))),
	})

	require.Equal(t, StatusDone, out.Status, out.Message)
	assert.Equal(t, models.Audio, out.Stored.Category)
	assert.Equal(t, "[song](assets/trip/song.mp3)", out.Fragment)
}

func TestPathDropSkipsUnsupported(t *testing.T) {
	fsys := store.NewMemFS()
	fsys.Seed("/tmp/tool.exe", []byte("MZ"))
	fsys.Seed("/tmp/clip.mov", []byte("moov"))
	fsys.Seed("/tmp/other.zip", []byte("PK"))
	in := New(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj"}

	out := in.DropPaths(ctx, []string{"/tmp/tool.exe", "/tmp/clip.mov", "/tmp/other.zip"})

	require.Equal(t, StatusDone, out.Status, out.Message)
	assert.Equal(t, "[clip](clip.mov)", out.Fragment)
	assert.Equal(t, []string{"/proj/clip.mov"}, fsys.Files("/proj/"))

	skipped := in.DropPaths(ctx, []string{"/tmp/tool.exe"})
	assert.Equal(t, StatusSkipped, skipped.Status)
}

func TestPathDropReadFailure(t *testing.T) {
	fsys := store.NewMemFS()
	in := New(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj"}

	out := in.DropPaths(ctx, []string{"/tmp/missing.png"})

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrReadFailure)
	assert.Contains(t, out.Message, "/tmp/missing.png")
	assert.Zero(t, fsys.Writes())
}

func TestWriteFailureSurfacesMessage(t *testing.T) {
	fsys := store.NewMemFS()
	fsys.FailWrite = map[string]error{"/proj/report.pdf": errors.New("disk full")}
	in := New(fsys)

	out := in.DropFiles(models.Context{WorkspaceRoot: "/proj"}, []models.Candidate{
		models.NewBrowserFile("report.pdf", "application/pdf", models.StaticBytes([]byte("%PDF"))),
	})

	assert.Equal(t, StatusFailed, out.Status)
	assert.True(t, out.Handled())
	assert.ErrorIs(t, out.Err, store.ErrWriteFailure)
	assert.Contains(t, out.Message, "disk full")
	assert.Empty(t, out.Fragment)
}

func TestDirectoryCreationFailure(t *testing.T) {
	fsys := store.NewMemFS()
	fsys.FailMkdir = map[string]error{"/proj/assets": errors.New("permission denied")}
	in := New(fsys)
	ctx := models.Context{WorkspaceRoot: "/proj", Settings: withSubfolder("assets")}

	out := in.Paste(ctx, []models.Candidate{
		models.NewClipboardItem(models.KindFile, "image/png", models.StaticBytes(pngBytes)),
	})

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, location.ErrDirectoryCreation)
	assert.Zero(t, fsys.Writes())
}

func TestClipboardLoadFailure(t *testing.T) {
	fsys := store.NewMemFS()
	in := New(fsys)
	load := func() ([]byte, error) { return nil, errors.New("clipboard gone") }

	out := in.Paste(models.Context{WorkspaceRoot: "/proj"}, []models.Candidate{
		models.NewClipboardItem(models.KindFile, "image/png", load),
	})

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrReadFailure)
	assert.Zero(t, fsys.Mutations())
}

func TestOutcomeCarriesID(t *testing.T) {
	in := newTestIngestor(store.NewMemFS())
	out := in.DropPaths(models.Context{WorkspaceRoot: "/proj"}, nil)
	assert.Equal(t, "test-id", out.ID)
	assert.Equal(t, models.TriggerPathDrop, out.Trigger)
	assert.Equal(t, "skipped", out.Status.String())
}

func TestCollisionCheckFailureIsNotAReadFailure(t *testing.T) {
	fsys := store.NewMemFS()
	fsys.FailStat = map[string]error{"/proj/report.pdf": errors.New("permission denied")}
	in := New(fsys)

	out := in.DropFiles(models.Context{WorkspaceRoot: "/proj"}, []models.Candidate{
		models.NewBrowserFile("report.pdf", "application/pdf", models.StaticBytes([]byte("%PDF"))),
	})

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, naming.ErrProbeFailure)
	assert.NotErrorIs(t, out.Err, ErrReadFailure)
	assert.Contains(t, out.Message, "Could not check the attachment folder for report.pdf")
	assert.Zero(t, fsys.Writes())
}

func TestLogLinesCarryOneComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	in := New(store.NewMemFS(), WithLogger(logger))

	out := in.Paste(models.Context{WorkspaceRoot: "/proj", Settings: withSubfolder("assets")}, []models.Candidate{
		models.NewClipboardItem(models.KindFile, "image/png", models.StaticBytes(pngBytes)),
	})
	require.Equal(t, StatusDone, out.Status, out.Message)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)

	components := map[string]bool{}
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"component":`), line)
		for _, name := range []string{"ingest", "location-resolver", "attachment-writer"} {
			if strings.Contains(line, `"component":"`+name+`"`) {
				components[name] = true
			}
		}
	}
	assert.Len(t, components, 3)
}
