// Package orchestrator sequences one analysis run: read the PixPlot
// output, resolve the selection, infer boundary pages, draw the audit
// samples, validate against ground truth and export every derived set.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/analysis"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/config"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/metrics"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/pixplot"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/storage"
)

// GroundTruthFile is the annotation the run looks for inside the random
// sample destination.
const GroundTruthFile = "to_be_selected.txt"

// Copy destination directories, prefixed with the run UUID.
const (
	destLastPages      = "_selected_last_page"
	destBetween        = "_between_selected"
	destSelectedSample = "_selected_sample"
	destRandomSample   = "_random_sample"
	destUserSample     = "_selected_sample_user"
)

// Status is the externally visible state of the run.
type Status struct {
	Status   string
	Progress int
	Message  string
	Start    *time.Time
	End      *time.Time
	Metadata map[string]any
}

// StatusStore mirrors run progress to an external store. Updates are
// best-effort; the pipeline never fails over them.
type StatusStore interface {
	Set(ctx context.Context, runID string, st Status) error
	Get(ctx context.Context, runID string) (Status, bool, error)
}

// Dependencies wires the run's collaborators. Status may be nil, which
// disables status reporting.
type Dependencies struct {
	Store  storage.Store
	Status StatusStore
	Run    config.RunConfig
}

type Orchestrator struct {
	deps Dependencies
}

func New(deps Dependencies) *Orchestrator {
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) dest(suffix string) string {
	return o.deps.Run.UUID + suffix
}

// Run executes the primary pass and, when configured, the user-hotspot
// pass. It returns the run report that was also written next to the
// exports.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	run := o.deps.Run
	start := time.Now()
	log.Info().
		Str("run_uuid", run.UUID).
		Strs("clusters", run.ClustersOfInterest).
		Str("store", o.deps.Store.Root()).
		Msg("starting analysis run")
	o.setStatus(ctx, Status{Status: "running", Progress: 0, Message: "reading pixplot output", Start: &start})

	// Clustering result and image manifest are the run's read-only
	// inputs; everything below derives from them.
	hotspotData, err := o.deps.Store.ReadFile(ctx, pixplot.HotspotPath(run.UUID))
	if err != nil {
		return nil, o.fail(ctx, fmt.Errorf("failed to read hotspot file: %w", err))
	}
	hotspots, err := pixplot.ParseHotspots(hotspotData)
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	manifestData, err := o.deps.Store.ReadFile(ctx, pixplot.ImageListPath(run.UUID))
	if err != nil {
		return nil, o.fail(ctx, fmt.Errorf("failed to read image manifest: %w", err))
	}
	images, err := pixplot.ParseImageList(manifestData)
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	manifest := analysis.Annotate(images)

	selection, err := analysis.Resolve(hotspots, manifest, run.ClustersOfInterest)
	if err != nil {
		return nil, o.fail(ctx, fmt.Errorf("failed to resolve clusters of interest: %w", err))
	}
	metrics.AddSelected("primary", len(selection))

	percent := 0
	if len(manifest) > 0 {
		percent = int(math.Round(float64(len(selection)) / float64(len(manifest)) * 100))
	}
	log.Info().
		Int("selected", len(selection)).
		Int("total", len(manifest)).
		Int("percent", percent).
		Msg("images selected")

	firstPages := analysis.FirstPages(selection)
	log.Info().Int("count", len(firstPages)).Msg("selected images on a first document page")

	o.setStatus(ctx, Status{Status: "running", Progress: 15, Message: "selection resolved",
		Metadata: map[string]any{"selected": len(selection), "total": len(manifest)}})

	// One sampler serves every draw of the run, in pipeline order.
	// Reseeding between draws would break reproducibility.
	sampler := analysis.NewSampler(run.RandomSeed)

	table := analysis.BuildLengthTable(manifest)
	lastPages := analysis.LastPages(selection, table)
	lastCopies, err := o.copyBatch(ctx, analysis.Filenames(lastPages), o.dest(destLastPages))
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	o.setStatus(ctx, Status{Status: "copying", Progress: 30, Message: "last pages copied"})

	gaps := analysis.FindGaps(selection)
	metrics.AddGaps(len(gaps))
	log.Info().Int("count", len(gaps)).Msg("pages between selected pages detected")
	gapSample := sampler.SampleGaps(gaps, run.SampleSize)
	gapCopies, err := o.copyBatch(ctx, analysis.GapFilenames(gapSample), o.dest(destBetween))
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	o.setStatus(ctx, Status{Status: "copying", Progress: 50, Message: "gap pages copied"})

	selectedSample := sampler.SampleRecords(selection, run.SampleSize)
	selectedCopies, err := o.copyBatch(ctx, analysis.Filenames(selectedSample), o.dest(destSelectedSample))
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	o.setStatus(ctx, Status{Status: "copying", Progress: 65, Message: "selection sample copied"})

	imageSample := sampler.SampleRecords(manifest, run.SampleSize)
	randomCopies, err := o.copyBatch(ctx, analysis.Filenames(imageSample), o.dest(destRandomSample))
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	o.setStatus(ctx, Status{Status: "validating", Progress: 75, Message: "random sample copied"})

	selectedSet := analysis.NewFilenameSet(analysis.Filenames(selection))
	truthPath := path.Join(o.dest(destRandomSample), GroundTruthFile)
	truth, err := analysis.ReadGroundTruth(ctx, o.deps.Store, truthPath)
	var tally analysis.Tally
	switch {
	case errors.Is(err, analysis.ErrNoGroundTruth):
		log.Info().
			Str("dest", o.dest(destRandomSample)).
			Msgf("please analyse the true images to select and create %s", GroundTruthFile)
		truth = nil
	case err != nil:
		log.Warn().Err(err).Msg("ground truth unreadable, skipping validation")
		truth = nil
	default:
		tally = analysis.TallyOutcomes(imageSample, selectedSet, truth)
		ev := log.Info()
		for _, outcome := range analysis.AllOutcomes {
			ev = ev.Int(string(outcome), tally[outcome])
			metrics.AddOutcome(string(outcome), tally[outcome])
		}
		ev.Msg("validation result")
	}

	o.setStatus(ctx, Status{Status: "exporting", Progress: 85, Message: "writing exports"})
	if err := o.exportImageList(ctx, manifest); err != nil {
		return nil, o.fail(ctx, err)
	}
	if err := o.exportSelected(ctx, selection, table); err != nil {
		return nil, o.fail(ctx, err)
	}
	if err := o.exportSample(ctx, imageSample, selectedSet, truth); err != nil {
		return nil, o.fail(ctx, err)
	}
	if err := o.exportGaps(ctx, gaps); err != nil {
		return nil, o.fail(ctx, err)
	}

	report := &Report{
		RunUUID:            run.UUID,
		GeneratedAt:        time.Now().UTC(),
		RandomSeed:         run.RandomSeed,
		SampleSize:         run.SampleSize,
		TotalImages:        len(manifest),
		SelectedImages:     len(selection),
		SelectedPercent:    percentOf(len(selection), len(manifest)),
		Documents:          len(table),
		FirstPagesSelected: len(firstPages),
		LastPagesSelected:  len(lastPages),
		GapPages:           len(gaps),
		Copies: map[string]int{
			o.dest(destLastPages):      len(lastCopies),
			o.dest(destBetween):        len(gapCopies),
			o.dest(destSelectedSample): len(selectedCopies),
			o.dest(destRandomSample):   len(randomCopies),
		},
		Validated: truth != nil,
	}
	if truth != nil {
		report.Validation = make(map[string]int, len(analysis.AllOutcomes))
		for _, outcome := range analysis.AllOutcomes {
			report.Validation[string(outcome)] = tally[outcome]
		}
	}

	if run.UserHotspotPath != "" {
		o.setStatus(ctx, Status{Status: "running", Progress: 90, Message: "user hotspot pass"})
		userReport, err := o.runUserPass(ctx, manifest, sampler)
		if err != nil {
			return nil, o.fail(ctx, err)
		}
		report.UserPass = userReport
		report.Copies[o.dest(destUserSample)] = userReport.CopiedImages
	}

	if err := o.writeReport(ctx, report); err != nil {
		return nil, o.fail(ctx, err)
	}

	end := time.Now()
	o.setStatus(ctx, Status{Status: "done", Progress: 100, Message: "analysis complete", End: &end})
	log.Info().Dur("elapsed", end.Sub(start)).Msg("analysis run complete")
	return report, nil
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// setStatus mirrors progress to the status store when one is wired.
func (o *Orchestrator) setStatus(ctx context.Context, st Status) {
	if o.deps.Status == nil {
		return
	}
	if err := o.deps.Status.Set(ctx, o.deps.Run.UUID, st); err != nil {
		log.Warn().Err(err).Msg("failed to update run status")
	}
}

// fail marks the run failed in the status store and passes err through.
func (o *Orchestrator) fail(ctx context.Context, err error) error {
	end := time.Now()
	o.setStatus(ctx, Status{Status: "failed", Progress: 100, Message: err.Error(), End: &end})
	return err
}
