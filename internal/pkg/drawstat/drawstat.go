// Package drawstat derives weight tables and summaries from draw history.
// Every function expects draws ordered newest first and returns nil for an
// empty history.
package drawstat

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/lottopro/backend/internal/model"
)

const (
	// TrendWindow is the amount of most recent draws the trend table looks at.
	TrendWindow = 50

	// RecentWindow is the amount of most recent draws behind the hot/cold view.
	RecentWindow = 20

	frequencyBase = 0.5
	trendBase     = 0.7
	trendScale    = 0.6
)

// Analyze computes every statistic set for draws and tags it with version.
func Analyze(draws []model.Draw, version uint64) *model.StatisticSets {
	return &model.StatisticSets{
		Version:      version,
		Frequency:    Frequency(draws),
		Trend:        Trend(draws),
		Pattern:      Pattern(draws),
		Counts:       Count(draws),
		RecentCounts: Count(Recent(draws, RecentWindow)),
	}
}

// Recent returns the n most recent draws, or all of them when there are fewer.
func Recent(draws []model.Draw, n int) []model.Draw {
	if n < len(draws) {
		return draws[:n]
	}
	return draws
}

// Count tallies how often each number was drawn as a main number.
func Count(draws []model.Draw) *model.NumberCounts {
	if len(draws) == 0 {
		return nil
	}
	var counts model.NumberCounts
	for _, d := range draws {
		for _, n := range d.Numbers {
			if n >= model.MinNumber && n <= model.MaxNumber {
				counts[n]++
			}
		}
	}
	return &counts
}

// Frequency weighs every number by its all-time occurrence rate:
// 0.5 + count/total.
func Frequency(draws []model.Draw) *model.WeightTable {
	counts := Count(draws)
	if counts == nil {
		return nil
	}
	total := float64(len(draws))
	var t model.WeightTable
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		t[n] = frequencyBase + float64(counts[n])/total
	}
	return &t
}

// Trend weighs every number by its rate within the most recent TrendWindow
// draws: 0.7 + (recentCount/window) * 0.6.
func Trend(draws []model.Draw) *model.WeightTable {
	window := Recent(draws, TrendWindow)
	counts := Count(window)
	if counts == nil {
		return nil
	}
	size := float64(len(window))
	var t model.WeightTable
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		t[n] = trendBase + float64(counts[n])/size*trendScale
	}
	return &t
}

// Pattern summarizes the sum, consecutive pair and parity shape of draws.
func Pattern(draws []model.Draw) *model.PatternSummary {
	if len(draws) == 0 {
		return nil
	}

	sums := make([]float64, len(draws))
	runs := make([]float64, len(draws))
	evens := make([]float64, len(draws))
	evenHistogram := make([]int, model.PickCount+1)
	sumRange := model.SumRange{Min: -1, Max: -1}

	for i, d := range draws {
		numbers := slices.Clone(d.Numbers)
		slices.Sort(numbers)

		sum, even, run := 0, 0, 0
		for j, n := range numbers {
			sum += n
			if n%2 == 0 {
				even++
			}
			if j > 0 && n-numbers[j-1] == 1 {
				run++
			}
		}

		sums[i] = float64(sum)
		runs[i] = float64(run)
		evens[i] = float64(even)
		if even < len(evenHistogram) {
			evenHistogram[even]++
		}
		if sumRange.Min < 0 || sum < sumRange.Min {
			sumRange.Min = sum
		}
		if sum > sumRange.Max {
			sumRange.Max = sum
		}
	}

	return &model.PatternSummary{
		MeanSum:             stat.Mean(sums, nil),
		MeanConsecutiveRuns: stat.Mean(runs, nil),
		MeanEvenCount:       stat.Mean(evens, nil),
		SumRange:            sumRange,
		ModalEvenCount:      mode(evenHistogram),
	}
}

// mode returns the index of the highest bucket, preferring the smaller index on ties.
func mode(histogram []int) int {
	best := 0
	for i, c := range histogram {
		if c > histogram[best] {
			best = i
		}
	}
	return best
}
