package orchestrator

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/analysis"
)

// writeCSV renders rows under a header and stores them at path.
func (o *Orchestrator) writeCSV(ctx context.Context, path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to render %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := o.deps.Store.WriteFile(ctx, path, buf.Bytes()); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("export written")
	return nil
}

// pageField renders a page number, empty when the filename did not
// carry one.
func pageField(nr int) string {
	if nr == 0 {
		return ""
	}
	return strconv.Itoa(nr)
}

// exportImageList writes the full annotated manifest.
func (o *Orchestrator) exportImageList(ctx context.Context, manifest []analysis.ImageRecord) error {
	rows := make([][]string, 0, len(manifest))
	for _, rec := range manifest {
		rows = append(rows, []string{rec.Filename, rec.DocTitle, pageField(rec.PageNr)})
	}
	return o.writeCSV(ctx, o.dest("_imagelist.csv"), []string{"filename", "doc_title", "page_nr"}, rows)
}

// exportSelected writes the selection, joined with each document's
// inferred page count.
func (o *Orchestrator) exportSelected(ctx context.Context, selection []analysis.ImageRecord, table analysis.LengthTable) error {
	rows := make([][]string, 0, len(selection))
	for _, rec := range selection {
		nrOfPages := ""
		if n, ok := table[rec.DocTitle]; ok && rec.DocTitle != "" {
			nrOfPages = strconv.Itoa(n)
		}
		rows = append(rows, []string{rec.Filename, rec.DocTitle, pageField(rec.PageNr), nrOfPages})
	}
	return o.writeCSV(ctx, o.dest("_image_selected.csv"),
		[]string{"filename", "doc_title", "page_nr", "nr_of_pages"}, rows)
}

// exportSample writes the audited random sample. When ground truth is
// present every row carries its validation outcome.
func (o *Orchestrator) exportSample(ctx context.Context, sample []analysis.ImageRecord, selected, truth analysis.FilenameSet) error {
	header := []string{"filename", "doc_title", "page_nr"}
	if truth != nil {
		header = append(header, "validation")
	}
	rows := make([][]string, 0, len(sample))
	for _, rec := range sample {
		row := []string{rec.Filename, rec.DocTitle, pageField(rec.PageNr)}
		if truth != nil {
			row = append(row, string(analysis.Classify(rec.Filename, selected, truth)))
		}
		rows = append(rows, row)
	}
	return o.writeCSV(ctx, o.dest("_image_sample.csv"), header, rows)
}

// exportGaps writes the inferred gap pages.
func (o *Orchestrator) exportGaps(ctx context.Context, gaps []analysis.GapRecord) error {
	rows := make([][]string, 0, len(gaps))
	for _, g := range gaps {
		rows = append(rows, []string{g.DocTitle, strconv.Itoa(g.PageNr), g.Filename})
	}
	return o.writeCSV(ctx, o.dest("_image_between_selected.csv"),
		[]string{"doc_title", "page_nr", "filename"}, rows)
}

// exportUserSelected writes the user-hotspot selection.
func (o *Orchestrator) exportUserSelected(ctx context.Context, selection []analysis.ImageRecord) error {
	rows := make([][]string, 0, len(selection))
	for _, rec := range selection {
		rows = append(rows, []string{rec.Filename, rec.DocTitle, pageField(rec.PageNr)})
	}
	return o.writeCSV(ctx, o.dest("_image_selected_user.csv"),
		[]string{"filename", "doc_title", "page_nr"}, rows)
}
