// Package analysis contains the selection-and-validation pipeline core:
// projecting clusters of interest onto the image manifest, inferring
// document lengths and boundary pages from filenames, detecting gap
// pages between selected pages, drawing reproducible audit samples and
// scoring them against a ground-truth annotation.
package analysis

import (
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/transkribus"
)

// ImageRecord is one manifest entry annotated with whatever document
// identity the filename reveals. An empty DocTitle or a zero PageNr
// means the filename did not match the Transkribus pattern; such
// records stay in their lists but are excluded from every grouping
// operation.
type ImageRecord struct {
	Filename string
	DocTitle string
	PageNr   int
}

// Annotate derives ImageRecords from manifest filenames, preserving
// manifest order.
func Annotate(filenames []string) []ImageRecord {
	records := make([]ImageRecord, 0, len(filenames))
	for _, name := range filenames {
		rec := ImageRecord{Filename: name}
		if title, ok := transkribus.DocTitle(name); ok {
			rec.DocTitle = title
		}
		if nr, ok := transkribus.PageNr(name); ok {
			rec.PageNr = nr
		}
		records = append(records, rec)
	}
	return records
}

// Filenames projects records onto their filenames, preserving order.
func Filenames(records []ImageRecord) []string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Filename)
	}
	return names
}
