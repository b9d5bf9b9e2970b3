package sampler

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottopro/backend/internal/model"
)

var modes = []model.Mode{
	model.ModeFrequency,
	model.ModeTrend,
	model.ModePattern,
	model.ModeUniform,
}

func statistics() Statistics {
	var freq, trend model.WeightTable
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		freq[n] = 0.5 + float64(n)/45
		trend[n] = 0.7 + float64(model.MaxNumber-n)/45*0.6
	}
	return Statistics{
		Frequency: &freq,
		Trend:     &trend,
		Pattern: &model.PatternSummary{
			MeanSum:        138,
			MeanEvenCount:  3,
			SumRange:       model.SumRange{Min: 60, Max: 220},
			ModalEvenCount: 3,
		},
	}
}

func assertValid(t *testing.T, c model.Combination, pinned model.Pinned) {
	t.Helper()
	assert.True(t, c.Valid(), "combination %v is not valid", c)
	assert.True(t, c.Covers(pinned), "combination %v misses pinned %v", c, pinned)
}

func TestGenerateInvariants(t *testing.T) {
	s := New(42)
	st := statistics()

	pinnedCases := []model.Pinned{
		nil,
		{7},
		{1, 45},
		{3, 11, 19, 27, 35},
		{40, 41, 42, 43, 44, 45},
	}

	for _, mode := range modes {
		for _, pinned := range pinnedCases {
			t.Run(string(mode), func(t *testing.T) {
				for i := 0; i < 200; i++ {
					assertValid(t, s.Generate(mode, pinned, st), pinned)
				}
			})
		}
	}
}

func TestGenerateWithoutStatistics(t *testing.T) {
	s := New(1)
	for _, mode := range modes {
		c := s.Generate(mode, model.Pinned{5}, Statistics{})
		assertValid(t, c, model.Pinned{5})
	}
}

func TestGenerateAllPinned(t *testing.T) {
	s := New(1)
	pinned := model.Pinned{45, 1, 20, 13, 2, 33}

	for _, mode := range modes {
		c := s.Generate(mode, pinned, statistics())
		assert.Equal(t, model.Combination{1, 2, 13, 20, 33, 45}, c)
	}
}

func TestGenerateZeroWeights(t *testing.T) {
	s := New(7)
	zero := &model.WeightTable{}
	nan := &model.WeightTable{}
	for n := range nan {
		nan[n] = math.NaN()
	}

	for _, table := range []*model.WeightTable{zero, nan} {
		c := s.Generate(model.ModeFrequency, model.Pinned{9}, Statistics{Frequency: table})
		assertValid(t, c, model.Pinned{9})
	}
}

func TestGenerateSanitizesPinned(t *testing.T) {
	s := New(3)
	c := s.Generate(model.ModeUniform, model.Pinned{0, 5, 5, 99}, Statistics{})

	assertValid(t, c, model.Pinned{5})
	assert.False(t, c.Contains(0))
}

func TestGenerateWeightedBias(t *testing.T) {
	s := New(11)
	var table model.WeightTable
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		table[n] = 0.01
	}
	table[17] = 1000

	hits := 0
	for i := 0; i < 100; i++ {
		if s.Generate(model.ModeFrequency, nil, Statistics{Frequency: &table}).Contains(17) {
			hits++
		}
	}
	assert.Greater(t, hits, 90)
}

func TestGeneratePatternTendsToMeanSum(t *testing.T) {
	s := New(5)
	st := Statistics{Pattern: &model.PatternSummary{MeanSum: 30}}

	total := 0
	for i := 0; i < 100; i++ {
		total += s.Generate(model.ModePattern, nil, st).Sum()
	}
	// a uniform combination averages 138
	assert.Less(t, total/100, 80)
}

func TestGenerateMany(t *testing.T) {
	s := New(9)
	st := statistics()

	for _, count := range []int{0, 1, 10, 250} {
		result := s.GenerateMany(model.ModeTrend, model.Pinned{4, 8}, st, count)
		require.Len(t, result, count)
		for _, c := range result {
			assertValid(t, c, model.Pinned{4, 8})
		}
	}

	assert.Empty(t, s.GenerateMany(model.ModeTrend, nil, st, -1))
}

func TestGenerateManyKeepsDuplicates(t *testing.T) {
	s := New(9)
	pinned := model.Pinned{1, 2, 3, 4, 5}

	result := s.GenerateMany(model.ModeUniform, pinned, Statistics{}, 100)
	require.Len(t, result, 100)

	distinct := map[model.Combination]struct{}{}
	for _, c := range result {
		distinct[c] = struct{}{}
	}
	// only 40 combinations can contain 1..5
	assert.LessOrEqual(t, len(distinct), 40)
}

func TestSeedReproducible(t *testing.T) {
	a := New(1234).GenerateMany(model.ModeFrequency, nil, statistics(), 20)
	b := New(1234).GenerateMany(model.ModeFrequency, nil, statistics(), 20)

	assert.Equal(t, a, b)
}

func TestConcurrentGenerate(t *testing.T) {
	s := New(0)
	st := statistics()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(mode model.Mode) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c := s.Generate(mode, model.Pinned{10}, st)
				assert.True(t, c.Valid())
			}
		}(modes[i%len(modes)])
	}
	wg.Wait()
}
