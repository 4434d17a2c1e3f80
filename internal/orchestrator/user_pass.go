package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/analysis"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/metrics"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/pixplot"
)

// runUserPass resolves a manually drawn hotspot file against the same
// manifest, samples it with the shared sampler and copies the sample
// out for review. Its cluster labels are independent of the primary
// hotspot file.
func (o *Orchestrator) runUserPass(ctx context.Context, manifest []analysis.ImageRecord, sampler *analysis.Sampler) (*UserPassReport, error) {
	run := o.deps.Run

	data, err := o.deps.Store.ReadFile(ctx, run.UserHotspotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user hotspot file: %w", err)
	}
	hotspots, err := pixplot.ParseHotspots(data)
	if err != nil {
		return nil, err
	}

	selection, err := analysis.Resolve(hotspots, manifest, run.UserClustersOfInterest)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user clusters of interest: %w", err)
	}
	metrics.AddSelected("user", len(selection))
	log.Info().
		Int("selected", len(selection)).
		Strs("clusters", run.UserClustersOfInterest).
		Msg("user hotspot images selected")

	sample := sampler.SampleRecords(selection, run.SampleSize)
	copies, err := o.copyBatch(ctx, analysis.Filenames(sample), o.dest(destUserSample))
	if err != nil {
		return nil, err
	}

	if err := o.exportUserSelected(ctx, selection); err != nil {
		return nil, err
	}

	return &UserPassReport{
		HotspotPath:    run.UserHotspotPath,
		SelectedImages: len(selection),
		CopiedImages:   len(copies),
	}, nil
}
