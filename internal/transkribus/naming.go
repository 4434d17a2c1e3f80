// Package transkribus derives document identity from the filenames of
// Transkribus page-image exports. Filenames follow the shape
// HGB_1_001_002_007.jpg: a document title (archive signature) followed by
// a zero-padded page number and the image suffix.
package transkribus

import (
	"fmt"
	"regexp"
)

const imageSuffix = ".jpg"

var (
	pageNrRe   = regexp.MustCompile(`([0-9]{3})\` + imageSuffix)
	docTitleRe = regexp.MustCompile(`HGB_[0-9]{1}_[0-9]{3}_[0-9]{3}`)
)

// PageNr extracts the page number from a page-image filename: the first
// 3-digit group immediately preceding the image suffix. The second return
// is false when the filename carries no such token; malformed names are a
// normal condition, not an error.
func PageNr(filename string) (int, bool) {
	m := pageNrRe.FindStringSubmatch(filename)
	if m == nil {
		return 0, false
	}
	nr := 0
	for _, d := range m[1] {
		nr = nr*10 + int(d-'0')
	}
	return nr, true
}

// DocTitle extracts the document title (archive signature) from a
// page-image filename. The second return is false when no title token is
// present.
func DocTitle(filename string) (string, bool) {
	m := docTitleRe.FindString(filename)
	if m == "" {
		return "", false
	}
	return m, true
}

// Filename reconstructs the page-image filename for a document title and
// page number, zero-padding the page to three digits. Absence propagates:
// an empty title or non-positive page yields false rather than a
// malformed name.
func Filename(docTitle string, pageNr int) (string, bool) {
	if docTitle == "" || pageNr < 1 {
		return "", false
	}
	return fmt.Sprintf("%s_%03d%s", docTitle, pageNr, imageSuffix), true
}
