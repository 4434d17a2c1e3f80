package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Outcome is the four-way confusion classification of one audited image.
type Outcome string

const (
	CorrectSelected    Outcome = "correct_selected"
	WrongSelected      Outcome = "wrong_selected"
	WrongNotSelected   Outcome = "wrong_not_selected"
	CorrectNotSelected Outcome = "correct_not_selected"
)

// AllOutcomes lists the outcomes in reporting order.
var AllOutcomes = []Outcome{CorrectSelected, WrongSelected, WrongNotSelected, CorrectNotSelected}

// ErrNoGroundTruth reports that the annotation file has not been created
// yet. This is the expected state of a fresh run; callers degrade to a
// notice instead of failing.
var ErrNoGroundTruth = errors.New("ground truth not annotated")

// FilenameSet supports membership tests over filenames.
type FilenameSet map[string]struct{}

// NewFilenameSet builds a set from filenames.
func NewFilenameSet(names []string) FilenameSet {
	set := make(FilenameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set.
func (s FilenameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Classify scores one filename against the selection and the ground
// truth. It is total over the 2x2 membership grid.
func Classify(filename string, selected, truth FilenameSet) Outcome {
	inSelection := selected.Contains(filename)
	inTruth := truth.Contains(filename)
	switch {
	case inSelection && inTruth:
		return CorrectSelected
	case inSelection:
		return WrongSelected
	case inTruth:
		return WrongNotSelected
	default:
		return CorrectNotSelected
	}
}

// Tally counts outcomes over an audited sample.
type Tally map[Outcome]int

// TallyOutcomes classifies every sampled record and counts the outcomes.
func TallyOutcomes(sample []ImageRecord, selected, truth FilenameSet) Tally {
	tally := make(Tally, len(AllOutcomes))
	for _, rec := range sample {
		tally[Classify(rec.Filename, selected, truth)]++
	}
	return tally
}

// LoadGroundTruth parses a to_be_selected.txt annotation: tab-separated
// lines with a header row naming a filename column. Blank lines are
// skipped, Windows line endings tolerated (the annotation is typically
// written by hand on a workstation).
func LoadGroundTruth(data []byte) (FilenameSet, error) {
	col := -1
	set := make(FilenameSet)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if col == -1 {
			for i, f := range fields {
				if strings.TrimSpace(f) == "filename" {
					col = i
					break
				}
			}
			if col == -1 {
				return nil, fmt.Errorf("ground truth: header has no filename column")
			}
			continue
		}
		if col < len(fields) {
			if name := strings.TrimSpace(fields[col]); name != "" {
				set[name] = struct{}{}
			}
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("ground truth: file is empty")
	}
	return set, nil
}

// FileReader is the slice of the image store ground-truth loading needs.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// ReadGroundTruth loads and parses the annotation file. A file that does
// not exist yields ErrNoGroundTruth.
func ReadGroundTruth(ctx context.Context, r FileReader, path string) (FilenameSet, error) {
	data, err := r.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoGroundTruth, path)
		}
		return nil, fmt.Errorf("read ground truth: %w", err)
	}
	return LoadGroundTruth(data)
}
