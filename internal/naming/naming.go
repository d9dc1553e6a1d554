// ABOUTME: File name policies for stored attachments.
// ABOUTME: Synthetic names for pasted payloads, preserved names for dropped files.

package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/mobi/internal/models"
)

const (
	imagePrefix  = "image"
	filePrefix   = "file"
	suffixLength = 6
	base36       = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ErrProbeFailure wraps errors checking whether a name is already taken.
var ErrProbeFailure = errors.New("naming: cannot check target directory")

// Prober reports whether a file exists. afero.Fs satisfies it.
type Prober interface {
	Stat(name string) (fs.FileInfo, error)
}

// Generator produces attachment file names. The zero value is not usable;
// call New.
type Generator struct {
	now    func() time.Time
	intn   func(n int) int
	prober Prober
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithRandom overrides the random source used for the base36 suffix.
func WithRandom(intn func(n int) int) Option {
	return func(g *Generator) {
		g.intn = intn
	}
}

// New creates a Generator probing the target directory through prober.
func New(prober Prober, opts ...Option) *Generator {
	g := &Generator{
		now:    time.Now,
		intn:   rand.IntN,
		prober: prober,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Synthetic returns "{prefix}_{unixMillis}_{random}.{ext}". Uniqueness is
// probabilistic: no existence check is made, a clash overwrites.
func (g *Generator) Synthetic(category models.MediaCategory, ext string) string {
	prefix := filePrefix
	if category == models.Image {
		prefix = imagePrefix
	}
	name := fmt.Sprintf("%s_%d_%s", prefix, g.now().UnixMilli(), g.randomSuffix())
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}
	return name
}

// Preserve reuses original when dir has no file of that name. Otherwise it
// returns "{stem}_{unixMillis}{.ext}" without probing again.
func (g *Generator) Preserve(dir, original string) (string, error) {
	original = filepath.Base(original)
	target := filepath.Join(dir, original)
	_, err := g.prober.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return original, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrProbeFailure, target, err)
	}

	stem, ext := SplitName(original)
	return fmt.Sprintf("%s_%d%s", stem, g.now().UnixMilli(), ext), nil
}

func (g *Generator) randomSuffix() string {
	var sb strings.Builder
	sb.Grow(suffixLength)
	for i := 0; i < suffixLength; i++ {
		sb.WriteByte(base36[g.intn(len(base36))])
	}
	return sb.String()
}

// SplitName splits a file name into its stem and extension (with dot).
// Dotfiles such as ".env" have no extension.
func SplitName(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}

// DisplayName is the link text for a stored file: its name without extension.
func DisplayName(name string) string {
	stem, _ := SplitName(name)
	return stem
}
