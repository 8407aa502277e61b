package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// normTolerance is the accepted floating drift of a state's probability sum
// from 1. Beyond it the distribution is silently renormalized before
// drawing; drift is numerical noise, not an input error.
const normTolerance = 1e-9

// Counts maps fixed-width little-endian bit-string outcomes to observed
// frequencies. The key set is deterministic for a seeded sampler; iteration
// order is not meaningful.
type Counts map[string]int

// Total returns the sum of all tallied frequencies.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Sampler draws measurement outcomes from a fixed final state.
//
// Randomness is injected: the Sampler owns a *rand.Rand built from the
// source it was given, so seeded runs reproduce exactly. A Sampler is not
// safe for concurrent use (rand.Rand is not); CountsParallel fans out by
// deriving an independent sub-seeded generator per worker instead.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler drawing from the given source.
func NewSampler(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

// NewSeededSampler returns a Sampler seeded with the given value.
func NewSeededSampler(seed int64) *Sampler {
	return NewSampler(rand.NewSource(seed))
}

// Measure performs one Born-rule draw and returns the measured basis-state
// index. The state is read, never mutated.
func (s *Sampler) Measure(state *State) (int, error) {
	probs, total := state.Probabilities()
	if total == 0 {
		return 0, fmt.Errorf("sim: cannot measure zero state")
	}
	if math.Abs(total-1) > normTolerance {
		for i := range probs {
			probs[i] /= total
		}
		total = 1
	}
	return drawIndex(s.rng, probs, total), nil
}

// drawIndex picks an index from a discrete distribution by walking the
// cumulative sum against a uniform draw in [0, total).
func drawIndex(rng *rand.Rand, probs []float64, total float64) int {
	r := rng.Float64() * total
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}
	// r landed beyond the accumulated sum (possible at the extreme edge of
	// floating rounding): return the last outcome with any probability.
	for i := len(probs) - 1; i >= 0; i-- {
		if probs[i] > 0 {
			return i
		}
	}
	return len(probs) - 1
}

// BitString renders a basis-state index as a fixed-width bit string in
// little-endian qubit order: qubit 0 is the rightmost character. This
// ordering is a load-bearing contract for downstream consumers.
func BitString(index, qubits int) string {
	buf := make([]byte, qubits)
	// Qubit q occupies index bit (qubits-1-q) and string position
	// (qubits-1-q) from the left, which collapses to: character i of the
	// output is index bit i.
	for i := 0; i < qubits; i++ {
		buf[i] = byte('0' + (index>>i)&1)
	}
	return string(buf)
}

// GetCounts performs shots independent draws against the same fixed state
// and tallies the outcomes. shots must be >= 0; zero shots yields an empty
// map. The tally total always equals shots exactly.
func (s *Sampler) GetCounts(state *State, shots int) (Counts, error) {
	if shots < 0 {
		return nil, fmt.Errorf("sim: shot count must be >= 0, got %d", shots)
	}

	counts := make(Counts)
	for i := 0; i < shots; i++ {
		index, err := s.Measure(state)
		if err != nil {
			return nil, err
		}
		counts[BitString(index, state.Qubits)]++
	}
	return counts, nil
}

// CountsParallel tallies shots across the given number of workers sharing
// read-only access to the state. Each worker draws from its own generator
// sub-seeded from this sampler, so results are deterministic for a fixed
// (seed, workers) pair, though different from the sequential tally for the
// same seed.
func (s *Sampler) CountsParallel(state *State, shots, workers int) (Counts, error) {
	if shots < 0 {
		return nil, fmt.Errorf("sim: shot count must be >= 0, got %d", shots)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > shots {
		workers = shots
	}
	if shots == 0 {
		return make(Counts), nil
	}

	// Sub-seed deterministically before spawning anything.
	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = s.rng.Int63()
	}

	per := shots / workers
	extra := shots % workers

	partials := make([]Counts, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		quota := per
		if w < extra {
			quota++
		}
		wg.Add(1)
		go func(w, quota int) {
			defer wg.Done()
			worker := NewSeededSampler(seeds[w])
			partials[w], errs[w] = worker.GetCounts(state, quota)
		}(w, quota)
	}
	wg.Wait()

	counts := make(Counts)
	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			return nil, errs[w]
		}
		for outcome, n := range partials[w] {
			counts[outcome] += n
		}
	}
	return counts, nil
}
