// Package storage abstracts where a run's files live. The PixPlot
// output tree (hotspot and manifest files, export CSVs, copy
// destinations) and the originals corpus are reachable through the same
// Store, backed either by a local directory or by an S3 bucket.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"
)

var (
	// ErrImageNotFound is returned when a copy source resolves to no
	// file under the originals corpus.
	ErrImageNotFound = errors.New("image not found")

	// ErrImageAmbiguous is returned when a copy source resolves to more
	// than one file. Exactly one match is part of the copy contract.
	ErrImageAmbiguous = errors.New("image name ambiguous")
)

// Store reads and writes run files. Paths are slash-separated and
// relative to the store root.
type Store interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	// CopyImage locates filename in the originals corpus and copies it
	// into destDir under the store root, creating the destination as
	// needed. The returned CopyResult describes the bytes actually
	// written.
	CopyImage(ctx context.Context, filename, destDir string) (CopyResult, error)
	// Root describes the store location for log and notice output.
	Root() string
}

// CopyResult is the fixity record of one copied image.
type CopyResult struct {
	Filename string
	Size     int64
	MIMEType string
	Checksum string
}

// describeCopy computes the fixity record for copied bytes. Content
// that does not sniff as an image is copied anyway but flagged, since
// the corpus is expected to hold page scans only.
func describeCopy(filename string, data []byte) CopyResult {
	sum := blake2b.Sum256(data)
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		log.Warn().Str("file", filename).Str("mime", mime).Msg("copied content is not an image")
	}
	return CopyResult{
		Filename: filename,
		Size:     int64(len(data)),
		MIMEType: mime,
		Checksum: hex.EncodeToString(sum[:]),
	}
}
