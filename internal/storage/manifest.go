package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
)

// ManifestName is the fixity manifest written into every copy
// destination after its batch completes.
const ManifestName = "manifest.csv"

// WriteManifest records the fixity of a copy batch as destDir/manifest.csv
// so downstream digital-preservation tooling can verify the copies.
func WriteManifest(ctx context.Context, store Store, destDir string, results []CopyResult) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"filename", "size", "mime_type", "checksum"}); err != nil {
		return fmt.Errorf("failed to render manifest for %s: %w", destDir, err)
	}
	for _, r := range results {
		row := []string{r.Filename, strconv.FormatInt(r.Size, 10), r.MIMEType, r.Checksum}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to render manifest for %s: %w", destDir, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to render manifest for %s: %w", destDir, err)
	}

	return store.WriteFile(ctx, path.Join(destDir, ManifestName), buf.Bytes())
}
