package analysis

import (
	"sort"
	"testing"
)

func TestIndices_Reproducible(t *testing.T) {
	t.Parallel()

	a := NewSampler(1).Indices(5000, 1000)
	b := NewSampler(1).Indices(5000, 1000)
	if len(a) != 1000 || len(b) != 1000 {
		t.Fatalf("draw sizes = %d, %d, want 1000", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draws diverge at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestIndices_DistinctAndAscending(t *testing.T) {
	t.Parallel()

	idx := NewSampler(1).Indices(100, 40)
	if !sort.IntsAreSorted(idx) {
		t.Fatalf("indices not ascending: %v", idx)
	}
	seen := map[int]bool{}
	for _, i := range idx {
		if i < 0 || i >= 100 {
			t.Fatalf("index %d outside population", i)
		}
		if seen[i] {
			t.Fatalf("index %d drawn twice", i)
		}
		seen[i] = true
	}
}

func TestIndices_SmallPopulationReturnsAll(t *testing.T) {
	t.Parallel()

	idx := NewSampler(1).Indices(4, 1000)
	if len(idx) != 4 {
		t.Fatalf("got %d indices, want the whole population", len(idx))
	}
	for i, v := range idx {
		if v != i {
			t.Fatalf("indices = %v, want [0 1 2 3] in order", idx)
		}
	}
}

func TestIndices_WholePopulationConsumesNoRandomness(t *testing.T) {
	t.Parallel()

	a := NewSampler(1)
	a.Indices(5, 1000)
	got := a.Indices(100, 10)

	want := NewSampler(1).Indices(100, 10)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("whole-population draw advanced the stream: %v vs %v", got, want)
		}
	}
}

func TestIndices_SuccessiveDrawsAdvanceStream(t *testing.T) {
	t.Parallel()

	s := NewSampler(1)
	first := s.Indices(100, 10)
	second := s.Indices(100, 10)
	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("successive draws identical: %v", first)
	}
}

func TestSampleRecords_PreservesPopulationOrder(t *testing.T) {
	t.Parallel()

	population := Annotate([]string{
		"HGB_1_001_002_001.jpg",
		"HGB_1_001_002_002.jpg",
		"HGB_1_001_002_003.jpg",
		"HGB_1_001_002_004.jpg",
		"HGB_1_001_002_005.jpg",
	})

	sample := NewSampler(1).SampleRecords(population, 3)
	if len(sample) != 3 {
		t.Fatalf("sample size = %d, want 3", len(sample))
	}
	lastPage := 0
	for _, rec := range sample {
		if rec.PageNr <= lastPage {
			t.Fatalf("sample not in population order: %v", Filenames(sample))
		}
		lastPage = rec.PageNr
	}
}

func TestSampleGaps(t *testing.T) {
	t.Parallel()

	gaps := []GapRecord{
		{DocTitle: "HGB_1_001_002", PageNr: 2, Filename: "HGB_1_001_002_002.jpg"},
		{DocTitle: "HGB_1_001_002", PageNr: 3, Filename: "HGB_1_001_002_003.jpg"},
	}

	sample := NewSampler(1).SampleGaps(gaps, 10)
	if len(sample) != 2 {
		t.Fatalf("sample size = %d, want the whole population", len(sample))
	}
	if sample[0] != gaps[0] || sample[1] != gaps[1] {
		t.Fatalf("sample = %v, want population order", sample)
	}
}

func TestIndices_EmptyPopulation(t *testing.T) {
	t.Parallel()

	if idx := NewSampler(1).Indices(0, 10); len(idx) != 0 {
		t.Fatalf("indices = %v, want none", idx)
	}
	if idx := NewSampler(1).Indices(10, 0); len(idx) != 0 {
		t.Fatalf("indices = %v, want none for k = 0", idx)
	}
}
