// ABOUTME: Ingestion orchestrator running classify, resolve, name, write and build.
// ABOUTME: One pipeline serves paste, browser drop and OS path drop candidates.

package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/harper/mobi/internal/location"
	"github.com/harper/mobi/internal/markdown"
	"github.com/harper/mobi/internal/media"
	"github.com/harper/mobi/internal/models"
	"github.com/harper/mobi/internal/naming"
	"github.com/harper/mobi/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Ingestor stores the first qualifying candidate of an event and builds its
// Markdown reference. It holds no per-event state and has no locking; two
// concurrent events may interleave their filesystem calls.
type Ingestor struct {
	fs       afero.Fs
	resolver *location.Resolver
	names    *naming.Generator
	writer   *store.Writer
	log      zerolog.Logger
	newID    func() string

	namingOpts []naming.Option
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(in *Ingestor) {
		in.log = log
	}
}

// WithNamingOptions passes options to the name generator.
func WithNamingOptions(opts ...naming.Option) Option {
	return func(in *Ingestor) {
		in.namingOpts = append(in.namingOpts, opts...)
	}
}

// WithIDGenerator overrides how ingest ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(in *Ingestor) {
		in.newID = newID
	}
}

// New creates an Ingestor over fsys.
func New(fsys afero.Fs, opts ...Option) *Ingestor {
	in := &Ingestor{
		fs:    fsys,
		log:   zerolog.Nop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(in)
	}

	base := in.log
	in.log = base.With().Str("component", "ingest").Logger()
	in.resolver = location.NewResolver(fsys, base)
	in.names = naming.New(fsys, in.namingOpts...)
	in.writer = store.NewWriter(fsys, base)
	return in
}

// Paste handles a clipboard event. The first file-like item whose MIME has a
// media prefix is stored under a synthetic name.
func (in *Ingestor) Paste(ctx models.Context, items []models.Candidate) Outcome {
	return in.run(models.TriggerPaste, ctx, items)
}

// DropFiles handles a browser-level drop of file blobs. The first file whose
// MIME or name extension is supported is stored.
func (in *Ingestor) DropFiles(ctx models.Context, files []models.Candidate) Outcome {
	return in.run(models.TriggerBrowserDrop, ctx, files)
}

// DropPaths handles an OS-level drop of file system paths. The first path with
// a supported extension is copied under its own name.
func (in *Ingestor) DropPaths(ctx models.Context, paths []string) Outcome {
	candidates := make([]models.Candidate, 0, len(paths))
	for _, p := range paths {
		candidates = append(candidates, models.NewPathCandidate(p))
	}
	return in.run(models.TriggerPathDrop, ctx, candidates)
}

func (in *Ingestor) run(trigger models.Trigger, ctx models.Context, candidates []models.Candidate) Outcome {
	id := in.newID()
	log := in.log.With().Str("ingest_id", id).Str("trigger", trigger.String()).Logger()

	var outcome Outcome
	if cand, ok := firstQualifying(candidates); ok {
		outcome = in.process(ctx, cand)
	} else {
		outcome = Outcome{Trigger: trigger, Status: StatusSkipped}
	}
	outcome.ID = id

	switch outcome.Status {
	case StatusDone:
		log.Info().
			Str("file", outcome.Stored.FileName).
			Str("dir", outcome.Dir).
			Str("category", outcome.Stored.Category.String()).
			Msg("attachment stored")
	case StatusFailed:
		log.Warn().Err(outcome.Err).Msg("ingestion failed")
	default:
		log.Debug().Int("candidates", len(candidates)).Msg("no candidate qualified")
	}
	return outcome
}

// firstQualifying scans in order and stops at the first match. Later
// candidates are ignored, not queued.
func firstQualifying(candidates []models.Candidate) (models.Candidate, bool) {
	for _, c := range candidates {
		if qualifies(c) {
			return c, true
		}
	}
	return models.Candidate{}, false
}

func qualifies(c models.Candidate) bool {
	switch c.Trigger {
	case models.TriggerPaste:
		return c.Kind == models.KindFile && media.HasMediaPrefix(c.MIME)
	case models.TriggerBrowserDrop:
		return media.ClassifyName(c.MIME, c.Name).Category.Supported()
	case models.TriggerPathDrop:
		return c.SourcePath != "" && media.SupportedExtension(filepath.Ext(c.SourcePath))
	default:
		return false
	}
}

func (in *Ingestor) process(ctx models.Context, cand models.Candidate) Outcome {
	source := describe(cand)

	if _, err := location.Compute(ctx); err != nil {
		return failed(cand.Trigger, source, err)
	}

	data, cls, err := in.load(cand)
	if err != nil {
		return failed(cand.Trigger, source, err)
	}

	loc, err := in.resolver.Resolve(ctx)
	if err != nil {
		return failed(cand.Trigger, source, err)
	}

	fileName, displayName, err := in.chooseName(cand, loc.Dir, cls)
	if err != nil {
		return failed(cand.Trigger, source, err)
	}

	if err := in.writer.Write(loc.Dir, fileName, data); err != nil {
		return failed(cand.Trigger, fileName, err)
	}

	stored := models.StoredAttachment{
		FileName: fileName,
		Fragment: loc.Fragment,
		Category: cls.Category,
	}
	return Outcome{
		Trigger:  cand.Trigger,
		Status:   StatusDone,
		Fragment: markdown.BuildFor(stored, displayName),
		Stored:   stored,
		Dir:      loc.Dir,
	}
}

func (in *Ingestor) load(cand models.Candidate) ([]byte, media.Classification, error) {
	if cand.Trigger == models.TriggerPathDrop {
		data, err := afero.ReadFile(in.fs, cand.SourcePath)
		if err != nil {
			return nil, media.Classification{}, fmt.Errorf("%w: %s: %w", ErrReadFailure, cand.SourcePath, err)
		}
		return data, media.ClassifyName("", cand.SourcePath), nil
	}

	data, err := cand.Bytes()
	if err != nil {
		return nil, media.Classification{}, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	if cand.Trigger == models.TriggerBrowserDrop {
		return data, media.ClassifyName(cand.MIME, cand.Name), nil
	}

	cls := media.ClassifyBytes(cand.MIME, data)
	if !cls.Category.Supported() {
		cls.Extension = media.SniffExtension(data)
	}
	return data, cls, nil
}

// chooseName applies the preserving policy to named candidates and the
// synthetic policy to anonymous payloads.
func (in *Ingestor) chooseName(cand models.Candidate, dir string, cls media.Classification) (string, string, error) {
	original := cand.Name
	if cand.Trigger == models.TriggerPathDrop {
		original = filepath.Base(cand.SourcePath)
	}

	if original == "" {
		name := in.names.Synthetic(cls.Category, cls.Extension)
		return name, naming.DisplayName(name), nil
	}

	original = filepath.Base(original)
	if filepath.Ext(original) == "" && cls.Extension != "" {
		original += "." + cls.Extension
	}
	name, err := in.names.Preserve(dir, original)
	if err != nil {
		return "", "", err
	}
	return name, naming.DisplayName(original), nil
}

func describe(cand models.Candidate) string {
	switch {
	case cand.SourcePath != "":
		return cand.SourcePath
	case cand.Name != "":
		return cand.Name
	case cand.MIME != "":
		return "pasted " + cand.MIME
	default:
		return "attachment"
	}
}
