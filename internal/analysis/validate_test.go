package analysis

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestClassify_CoversTheGrid(t *testing.T) {
	t.Parallel()

	selected := NewFilenameSet([]string{"a.jpg", "b.jpg"})
	truth := NewFilenameSet([]string{"a.jpg", "c.jpg"})

	tests := []struct {
		filename string
		want     Outcome
	}{
		{"a.jpg", CorrectSelected},
		{"b.jpg", WrongSelected},
		{"c.jpg", WrongNotSelected},
		{"d.jpg", CorrectNotSelected},
	}
	for _, tc := range tests {
		if got := Classify(tc.filename, selected, truth); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.filename, got, tc.want)
		}
	}
}

func TestTallyOutcomes(t *testing.T) {
	t.Parallel()

	sample := []ImageRecord{
		{Filename: "a.jpg"},
		{Filename: "b.jpg"},
		{Filename: "c.jpg"},
		{Filename: "d.jpg"},
		{Filename: "e.jpg"},
	}
	selected := NewFilenameSet([]string{"a.jpg", "b.jpg"})
	truth := NewFilenameSet([]string{"a.jpg", "c.jpg"})

	tally := TallyOutcomes(sample, selected, truth)
	if tally[CorrectSelected] != 1 || tally[WrongSelected] != 1 || tally[WrongNotSelected] != 1 || tally[CorrectNotSelected] != 2 {
		t.Fatalf("tally = %v", tally)
	}
}

func TestLoadGroundTruth(t *testing.T) {
	t.Parallel()

	data := []byte("filename\nHGB_1_001_002_001.jpg\nHGB_1_001_002_002.jpg\n\n")
	truth, err := LoadGroundTruth(data)
	if err != nil {
		t.Fatalf("LoadGroundTruth: %v", err)
	}
	if len(truth) != 2 || !truth.Contains("HGB_1_001_002_001.jpg") {
		t.Fatalf("truth = %v", truth)
	}
}

func TestLoadGroundTruth_ExtraColumnsAndCRLF(t *testing.T) {
	t.Parallel()

	data := []byte("note\tfilename\r\nfirst batch\tHGB_1_001_002_001.jpg\r\n\tHGB_1_001_002_002.jpg\r\n")
	truth, err := LoadGroundTruth(data)
	if err != nil {
		t.Fatalf("LoadGroundTruth: %v", err)
	}
	if len(truth) != 2 || !truth.Contains("HGB_1_001_002_002.jpg") {
		t.Fatalf("truth = %v", truth)
	}
}

func TestLoadGroundTruth_MissingColumn(t *testing.T) {
	t.Parallel()

	if _, err := LoadGroundTruth([]byte("name\na.jpg\n")); err == nil {
		t.Fatal("expected error for header without filename column")
	}
}

func TestLoadGroundTruth_EmptyFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadGroundTruth(nil); err == nil {
		t.Fatal("expected error for empty file")
	}
}

type fakeReader map[string][]byte

func (f fakeReader) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, ok := f[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestReadGroundTruth(t *testing.T) {
	t.Parallel()

	reader := fakeReader{
		"run_random_sample/to_be_selected.txt": []byte("filename\na.jpg\n"),
	}

	truth, err := ReadGroundTruth(context.Background(), reader, "run_random_sample/to_be_selected.txt")
	if err != nil {
		t.Fatalf("ReadGroundTruth: %v", err)
	}
	if !truth.Contains("a.jpg") {
		t.Fatalf("truth = %v", truth)
	}

	_, err = ReadGroundTruth(context.Background(), reader, "missing/to_be_selected.txt")
	if !errors.Is(err, ErrNoGroundTruth) {
		t.Fatalf("expected ErrNoGroundTruth, got %v", err)
	}
}
