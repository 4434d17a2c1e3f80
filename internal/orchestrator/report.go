package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Report summarizes one analysis run. It is returned to the caller and
// written next to the CSV exports.
type Report struct {
	RunUUID     string    `json:"run_uuid"`
	GeneratedAt time.Time `json:"generated_at"`
	RandomSeed  int64     `json:"random_seed"`
	SampleSize  int       `json:"sample_size"`

	TotalImages     int     `json:"total_images"`
	SelectedImages  int     `json:"selected_images"`
	SelectedPercent float64 `json:"selected_percent"`
	Documents       int     `json:"documents"`

	FirstPagesSelected int `json:"first_pages_selected"`
	LastPagesSelected  int `json:"last_pages_selected"`
	GapPages           int `json:"gap_pages"`

	Copies map[string]int `json:"copies"`

	Validated  bool           `json:"validated"`
	Validation map[string]int `json:"validation,omitempty"`

	UserPass *UserPassReport `json:"user_pass,omitempty"`
}

// UserPassReport summarizes the optional user-hotspot pass.
type UserPassReport struct {
	HotspotPath    string `json:"hotspot_path"`
	SelectedImages int    `json:"selected_images"`
	CopiedImages   int    `json:"copied_images"`
}

func (o *Orchestrator) writeReport(ctx context.Context, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render run report: %w", err)
	}
	path := o.dest("_run_report.json")
	if err := o.deps.Store.WriteFile(ctx, path, append(data, '\n')); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("run report written")
	return nil
}
