package analysis

import (
	"math/rand"
	"sort"
)

// Sampler draws uniform samples without replacement from a reproducible
// pseudo-random stream. One Sampler serves a whole run: the seed is
// fixed at construction and every draw advances the same stream, so a
// rerun over identical inputs reproduces every sample bit for bit.
// Reseeding mid-run would break that contract.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler over math/rand's default source seeded
// with seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Indices draws k distinct indices from [0, n), returned ascending.
// When k >= n every index is returned and the random stream is left
// untouched, so a run where a population happens to fit entirely into
// the sample consumes no randomness for it.
func (s *Sampler) Indices(n, k int) []int {
	if n <= 0 {
		return nil
	}
	if k >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	if k <= 0 {
		return nil
	}

	// Partial Fisher-Yates over the index space: k swaps pick k
	// distinct positions.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	picked := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		picked[i] = idx[i]
	}
	sort.Ints(picked)
	return picked
}

// SampleRecords draws up to k records, preserving population order.
func (s *Sampler) SampleRecords(population []ImageRecord, k int) []ImageRecord {
	idx := s.Indices(len(population), k)
	sample := make([]ImageRecord, 0, len(idx))
	for _, i := range idx {
		sample = append(sample, population[i])
	}
	return sample
}

// SampleGaps draws up to k gap records, preserving population order.
func (s *Sampler) SampleGaps(population []GapRecord, k int) []GapRecord {
	idx := s.Indices(len(population), k)
	sample := make([]GapRecord, 0, len(idx))
	for _, i := range idx {
		sample = append(sample, population[i])
	}
	return sample
}
