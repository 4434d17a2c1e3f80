package analysis

import (
	"sort"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/transkribus"
)

// GapRecord identifies an unselected page lying strictly between two
// selected pages of the same document. Such pages very likely belong to
// the target category as well; they are copied out for manual review.
type GapRecord struct {
	DocTitle string
	PageNr   int
	Filename string
}

// FindGaps walks each document's selected page numbers in ascending
// order and reports every page number strictly between two selected
// neighbours. Pages before the first or after the last selected page of
// a document are never gaps; a lone selected page or a contiguous run
// yields none. Records without document title or page number do not take
// part. Output is ordered by document title, then page number.
func FindGaps(selection []ImageRecord) []GapRecord {
	pages := make(map[string][]int)
	for _, rec := range selection {
		if rec.DocTitle == "" || rec.PageNr == 0 {
			continue
		}
		pages[rec.DocTitle] = append(pages[rec.DocTitle], rec.PageNr)
	}

	titles := make([]string, 0, len(pages))
	for title := range pages {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	var gaps []GapRecord
	for _, title := range titles {
		nrs := pages[title]
		sort.Ints(nrs)

		last := 0
		for _, p := range nrs {
			switch {
			case last == 0:
				last = p
			case p <= last+1:
				// contiguous, or the same page listed twice
				last = p
			default:
				for g := last + 1; g < p; g++ {
					name, _ := transkribus.Filename(title, g)
					gaps = append(gaps, GapRecord{DocTitle: title, PageNr: g, Filename: name})
				}
				last = p
			}
		}
	}
	return gaps
}

// GapFilenames projects gap records onto their derived filenames,
// preserving order.
func GapFilenames(gaps []GapRecord) []string {
	names := make([]string, 0, len(gaps))
	for _, g := range gaps {
		names = append(names, g.Filename)
	}
	return names
}
