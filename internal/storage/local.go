package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// Local stores run files under a directory on the local filesystem.
type Local struct {
	root      string
	originals string
}

// NewLocal returns a store rooted at root. originals is the directory
// holding the source images; when empty it defaults to root/originals,
// the layout PixPlot itself produces.
func NewLocal(root, originals string) *Local {
	if originals == "" {
		originals = filepath.Join(root, "originals")
	}
	return &Local{root: root, originals: originals}
}

// Root returns the store directory.
func (l *Local) Root() string {
	return l.root
}

// ReadFile reads a file relative to the store root.
func (l *Local) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.root, filepath.FromSlash(path)))
}

// WriteFile writes a file relative to the store root, creating parent
// directories as needed.
func (l *Local) WriteFile(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(l.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CopyImage locates filename anywhere under the originals directory and
// copies it into destDir under the store root. The originals tree may be
// nested (Transkribus exports come per document), so resolution globs
// recursively; zero matches fail with ErrImageNotFound, several with
// ErrImageAmbiguous.
func (l *Local) CopyImage(ctx context.Context, filename, destDir string) (CopyResult, error) {
	matches, err := doublestar.Glob(os.DirFS(l.originals), "**/"+filename)
	if err != nil {
		return CopyResult{}, fmt.Errorf("failed to search %s in %s: %w", filename, l.originals, err)
	}
	switch {
	case len(matches) == 0:
		return CopyResult{}, fmt.Errorf("%s in %s: %w", filename, l.originals, ErrImageNotFound)
	case len(matches) > 1:
		return CopyResult{}, fmt.Errorf("%s resolves to %d files in %s: %w", filename, len(matches), l.originals, ErrImageAmbiguous)
	}

	data, err := os.ReadFile(filepath.Join(l.originals, filepath.FromSlash(matches[0])))
	if err != nil {
		return CopyResult{}, fmt.Errorf("failed to read %s: %w", matches[0], err)
	}

	dest := filepath.Join(l.root, filepath.FromSlash(destDir))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return CopyResult{}, fmt.Errorf("failed to create %s: %w", destDir, err)
	}
	if err := os.WriteFile(filepath.Join(dest, filename), data, 0o644); err != nil {
		return CopyResult{}, fmt.Errorf("failed to copy %s to %s: %w", filename, destDir, err)
	}

	result := describeCopy(filename, data)
	log.Debug().Str("file", filename).Str("dest", destDir).Int64("size", result.Size).Msg("copied image")
	return result, nil
}
