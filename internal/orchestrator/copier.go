package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/metrics"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/storage"
)

// copyBatch copies filenames into destDir through a bounded worker pool
// and writes the destination's fixity manifest. An empty batch creates
// nothing. The first hard error cancels the remaining copies.
func (o *Orchestrator) copyBatch(ctx context.Context, filenames []string, destDir string) ([]storage.CopyResult, error) {
	if len(filenames) == 0 {
		log.Info().Str("dest", destDir).Msg("nothing to copy")
		return nil, nil
	}

	// The group context is done once Wait returns, so it stays inside the
	// workers; the manifest write below still needs the caller's ctx.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.deps.Run.CopyWorkers)

	results := make([]storage.CopyResult, len(filenames))
	for i, name := range filenames {
		g.Go(func() error {
			start := time.Now()
			res, err := o.deps.Store.CopyImage(gctx, name, destDir)
			if err != nil {
				metrics.ObserveCopy(destDir, "error", time.Since(start))
				return err
			}
			metrics.ObserveCopy(destDir, "success", time.Since(start))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to copy into %s: %w", destDir, err)
	}

	if err := storage.WriteManifest(ctx, o.deps.Store, destDir, results); err != nil {
		return nil, err
	}
	log.Info().Int("images", len(results)).Str("dest", destDir).Msg("batch copied")
	return results, nil
}
