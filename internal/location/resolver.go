// ABOUTME: Location resolver computing where an attachment is stored.
// ABOUTME: Picks the document directory or workspace root and applies the subfolder policy.

package location

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/harper/mobi/internal/models"
	"github.com/harper/mobi/internal/naming"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	// ErrNoLocationAvailable means no document is open and no workspace root is set.
	ErrNoLocationAvailable = errors.New("location: no document open and no workspace root set")
	// ErrDirectoryCreation wraps failures creating the target directory.
	ErrDirectoryCreation = errors.New("location: cannot create target directory")
)

const dirPerm = 0755

// Resolver turns an ingestion context into a ResolvedLocation.
type Resolver struct {
	fs  afero.Fs
	log zerolog.Logger
}

// NewResolver creates a Resolver that creates directories through fsys.
func NewResolver(fsys afero.Fs, log zerolog.Logger) *Resolver {
	return &Resolver{
		fs:  fsys,
		log: log.With().Str("component", "location-resolver").Logger(),
	}
}

// Resolve computes the location and makes sure its directory exists.
func (r *Resolver) Resolve(ctx models.Context) (models.ResolvedLocation, error) {
	loc, err := Compute(ctx)
	if err != nil {
		return models.ResolvedLocation{}, err
	}

	if err := r.fs.MkdirAll(loc.Dir, dirPerm); err != nil {
		return models.ResolvedLocation{}, fmt.Errorf("%w: %s: %w", ErrDirectoryCreation, loc.Dir, err)
	}

	r.log.Debug().
		Str("dir", loc.Dir).
		Str("fragment", loc.Fragment).
		Msg("location resolved")
	return loc, nil
}

// Compute derives the location without touching the filesystem.
func Compute(ctx models.Context) (models.ResolvedLocation, error) {
	var base, docName string
	switch {
	case ctx.HasDocument():
		base = filepath.Dir(ctx.DocumentPath)
		docName = DocumentBaseName(ctx.DocumentPath)
	case ctx.HasWorkspace():
		base = filepath.Clean(ctx.WorkspaceRoot)
	default:
		return models.ResolvedLocation{}, ErrNoLocationAvailable
	}

	if !ctx.Settings.UseSubfolder() {
		return models.ResolvedLocation{Dir: base}, nil
	}

	fragment := cleanSubfolder(ctx.Settings.SubfolderName)
	if docName != "" {
		fragment = path.Join(fragment, docName)
	}
	return models.ResolvedLocation{
		Dir:      filepath.Join(base, filepath.FromSlash(fragment)),
		Fragment: fragment,
	}, nil
}

// DocumentBaseName is the document's file name without its extension.
func DocumentBaseName(documentPath string) string {
	return naming.DisplayName(filepath.Base(documentPath))
}

func cleanSubfolder(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	return strings.Trim(path.Clean("/"+name), "/")
}
