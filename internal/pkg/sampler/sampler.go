// Package sampler turns statistic sets into valid combinations. It never
// returns an error: every failure degrades to a uniformly random combination.
package sampler

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/lottopro/backend/internal/model"
)

const (
	// patternHalfWidth is the initial half width of the pattern mode search
	// range around the per-slot target; every retry widens it by the same amount.
	patternHalfWidth = 8

	// patternAttempts bounds how often the pattern search range is widened
	// before the slot is filled uniformly.
	patternAttempts = 3

	pcgStream = 0x9e3779b97f4a7c15
)

// Statistics are the inputs of the biased modes. Any of them may be nil.
type Statistics struct {
	Frequency *model.WeightTable
	Trend     *model.WeightTable
	Pattern   *model.PatternSummary
}

// Sampler is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Sampler. A non-zero seed makes its output reproducible.
func New(seed uint64) *Sampler {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Sampler{
		rng: rand.New(rand.NewPCG(seed, seed^pcgStream)),
	}
}

// Generate produces one combination for mode that contains every pinned number.
func (s *Sampler) Generate(mode model.Mode, pinned model.Pinned, st Statistics) model.Combination {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generate(mode, sanitize(pinned), st)
}

// GenerateMany produces exactly count independent combinations. Repeated
// combinations are kept.
func (s *Sampler) GenerateMany(mode model.Mode, pinned model.Pinned, st Statistics, count int) []model.Combination {
	if count <= 0 {
		return []model.Combination{}
	}
	pinned = sanitize(pinned)

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]model.Combination, count)
	for i := range result {
		result[i] = s.generate(mode, pinned, st)
	}
	return result
}

func (s *Sampler) generate(mode model.Mode, pinned model.Pinned, st Statistics) (c model.Combination) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().
				Str("evt.name", "sampler.panic").
				Str("mode", string(mode)).
				Interface("panic", r).
				Msg("sampler panicked, falling back to uniform combination")
			c = s.uniform(pinned)
		}
	}()

	var numbers []int
	switch mode {
	case model.ModeFrequency:
		numbers = s.weighted(pinned, st.Frequency)
	case model.ModeTrend:
		numbers = s.weighted(pinned, st.Trend)
	case model.ModePattern:
		numbers = s.pattern(pinned, st.Pattern)
	default:
		numbers = s.fill(pinned)
	}

	c, err := model.NewCombination(numbers)
	if err != nil || !c.Covers(pinned) {
		log.Warn().
			Err(err).
			Str("evt.name", "sampler.invalid").
			Str("mode", string(mode)).
			Ints("numbers", numbers).
			Msg("sampler produced an invalid combination, falling back to uniform combination")
		return s.uniform(pinned)
	}
	return c
}

// weighted draws the remaining slots without replacement, proportionally to table.
func (s *Sampler) weighted(pinned model.Pinned, table *model.WeightTable) []int {
	chosen := make([]int, 0, model.PickCount)
	chosen = append(chosen, pinned...)

	weights := make([]float64, model.MaxNumber)
	for i := range weights {
		n := i + model.MinNumber
		if pinned.Contains(n) {
			continue
		}
		weights[i] = table.Weight(n)
	}

	w := sampleuv.NewWeighted(weights, s.rng)
	for len(chosen) < model.PickCount {
		idx, ok := w.Take()
		if !ok {
			// every remaining candidate weighs zero
			return s.fill(chosen)
		}
		chosen = append(chosen, idx+model.MinNumber)
	}
	return chosen
}

// pattern fills every slot with a number close to the share of the mean sum
// still missing, so that the combination sum tends towards summary.MeanSum.
func (s *Sampler) pattern(pinned model.Pinned, summary *model.PatternSummary) []int {
	if summary == nil {
		return s.fill(pinned)
	}

	chosen := make([]int, 0, model.PickCount)
	chosen = append(chosen, pinned...)
	sum := 0
	for _, n := range chosen {
		sum += n
	}

	for len(chosen) < model.PickCount {
		slotsLeft := model.PickCount - len(chosen)
		target := (summary.MeanSum - float64(sum)) / float64(slotsLeft)

		n, ok := s.near(chosen, target)
		if !ok {
			n = s.pick(unused(chosen, model.MinNumber, model.MaxNumber))
		}
		chosen = append(chosen, n)
		sum += n
	}
	return chosen
}

func (s *Sampler) near(chosen []int, target float64) (int, bool) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, false
	}
	center := int(math.Round(math.Max(math.Min(target, 1e6), -1e6)))
	for attempt := 1; attempt <= patternAttempts; attempt++ {
		w := patternHalfWidth * attempt
		lo := max(model.MinNumber, center-w)
		hi := min(model.MaxNumber, center+w)
		if lo > hi {
			continue
		}
		if candidates := unused(chosen, lo, hi); len(candidates) > 0 {
			return s.pick(candidates), true
		}
	}
	return 0, false
}

// fill completes chosen with uniformly random unused numbers.
func (s *Sampler) fill(chosen []int) []int {
	result := make([]int, 0, model.PickCount)
	result = append(result, chosen...)

	pool := unused(result, model.MinNumber, model.MaxNumber)
	for i := 0; len(result) < model.PickCount && i < len(pool); i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		result = append(result, pool[i])
	}
	return result
}

func (s *Sampler) uniform(pinned model.Pinned) model.Combination {
	c, err := model.NewCombination(s.fill(pinned))
	if err != nil {
		// pinned is sanitized, so this only happens on a broken invariant
		log.Error().Err(err).Str("evt.name", "sampler.uniform").Msg("uniform fill failed")
		return model.FallbackCombination
	}
	return c
}

func (s *Sampler) pick(candidates []int) int {
	return candidates[s.rng.IntN(len(candidates))]
}

func unused(chosen []int, lo, hi int) []int {
	pool := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		taken := false
		for _, c := range chosen {
			if c == n {
				taken = true
				break
			}
		}
		if !taken {
			pool = append(pool, n)
		}
	}
	return pool
}

func sanitize(pinned model.Pinned) model.Pinned {
	return model.PinnedOf(pinned...)
}
