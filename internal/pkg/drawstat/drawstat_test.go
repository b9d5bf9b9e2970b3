package drawstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottopro/backend/internal/model"
)

func draw(round int, numbers ...int) model.Draw {
	return model.Draw{Round: round, Numbers: numbers, Bonus: 45}
}

func TestFrequency(t *testing.T) {
	tests := []struct {
		name    string
		draws   []model.Draw
		weights map[int]float64
		absent  int
	}{
		{
			name: "two draws",
			draws: []model.Draw{
				draw(2, 1, 2, 3, 4, 5, 6),
				draw(1, 1, 7, 8, 9, 10, 11),
			},
			weights: map[int]float64{1: 1.5, 2: 1.0, 44: 0.5},
			absent:  44,
		},
		{
			name: "three draws",
			draws: []model.Draw{
				draw(3, 1, 2, 3, 4, 5, 6),
				draw(2, 7, 8, 9, 10, 11, 12),
				draw(1, 1, 8, 15, 22, 29, 36),
			},
			weights: map[int]float64{1: 0.5 + 2.0/3, 8: 0.5 + 2.0/3, 2: 0.5 + 1.0/3, 45: 0.5},
			absent:  45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Frequency(tt.draws)
			require.NotNil(t, table)

			for n, w := range tt.weights {
				assert.InDelta(t, w, table.Weight(n), 1e-9, "weight of %d", n)
			}
			assert.Greater(t, table.Weight(1), table.Weight(tt.absent))

			for n := model.MinNumber; n <= model.MaxNumber; n++ {
				assert.Greater(t, table.Weight(n), 0.0, "weight of %d", n)
			}
		})
	}
}

func TestFrequencySingleDraw(t *testing.T) {
	table := Frequency([]model.Draw{draw(1, 1, 2, 3, 4, 5, 6)})
	require.NotNil(t, table)

	assert.Greater(t, table.Weight(1), table.Weight(7))
}

func TestTrendWindow(t *testing.T) {
	draws := make([]model.Draw, 0, 60)
	// the 50 newest draws never contain 40, the 10 oldest always do
	for round := 60; round > 10; round-- {
		draws = append(draws, draw(round, 1, 2, 3, 4, 5, 6))
	}
	for round := 10; round > 0; round-- {
		draws = append(draws, draw(round, 40, 41, 42, 43, 44, 45))
	}

	table := Trend(draws)
	require.NotNil(t, table)

	assert.InDelta(t, 1.3, table.Weight(1), 1e-9)
	assert.InDelta(t, 0.7, table.Weight(40), 1e-9)
}

func TestTrendShortHistory(t *testing.T) {
	draws := []model.Draw{
		draw(2, 1, 2, 3, 4, 5, 6),
		draw(1, 1, 7, 8, 9, 10, 11),
	}

	table := Trend(draws)
	require.NotNil(t, table)

	assert.InDelta(t, 1.3, table.Weight(1), 1e-9)
	assert.InDelta(t, 1.0, table.Weight(7), 1e-9)
}

func TestPattern(t *testing.T) {
	draws := []model.Draw{
		draw(3, 1, 2, 3, 10, 20, 30), // sum 66, runs 2, evens 4
		draw(2, 5, 7, 9, 11, 13, 15), // sum 60, runs 0, evens 0
		draw(1, 2, 4, 6, 8, 10, 12),  // sum 42, runs 0, evens 6
	}

	summary := Pattern(draws)
	require.NotNil(t, summary)

	assert.InDelta(t, 56.0, summary.MeanSum, 1e-9)
	assert.InDelta(t, 2.0/3.0, summary.MeanConsecutiveRuns, 1e-9)
	assert.InDelta(t, 10.0/3.0, summary.MeanEvenCount, 1e-9)
	assert.Equal(t, model.SumRange{Min: 42, Max: 66}, summary.SumRange)
	// every even count appears once, the smallest wins
	assert.Equal(t, 0, summary.ModalEvenCount)
}

func TestEmptyHistory(t *testing.T) {
	assert.Nil(t, Frequency(nil))
	assert.Nil(t, Trend(nil))
	assert.Nil(t, Pattern(nil))
	assert.Nil(t, Count(nil))

	sets := Analyze(nil, 7)
	assert.Equal(t, uint64(7), sets.Version)
	assert.Nil(t, sets.Frequency)
	assert.Nil(t, sets.RecentCounts)
}

func TestRank(t *testing.T) {
	var counts model.NumberCounts
	counts[7] = 5
	counts[3] = 5
	counts[9] = 2

	hot := Hottest(&counts, 3)
	assert.Equal(t, []model.NumberCount{{3, 5}, {7, 5}, {9, 2}}, hot)

	cold := Coldest(&counts, 2)
	assert.Equal(t, []model.NumberCount{{1, 0}, {2, 0}}, cold)

	assert.Len(t, Hottest(nil, 10), 10)
}
