package model

import "math"

// DefaultWeight is the weight of a number the active table has no entry for.
const DefaultWeight = 0.5

// Mode selects which statistic set biases the sampler.
type Mode string

const (
	ModeFrequency Mode = "frequency"
	ModeTrend     Mode = "trend"
	ModePattern   Mode = "pattern"
	ModeUniform   Mode = "uniform"
)

// WeightTable maps numbers 1..45 to a relative selection weight. Index 0 is unused.
type WeightTable [MaxNumber + 1]float64

// Weight returns the weight of n. A nil table yields DefaultWeight for every
// number; negative or non-finite entries read as zero.
func (t *WeightTable) Weight(n int) float64 {
	if t == nil || n < MinNumber || n > MaxNumber {
		return DefaultWeight
	}
	w := t[n]
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// SumRange is the observed span of draw sums.
type SumRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PatternSummary aggregates the shape of past draws.
type PatternSummary struct {
	MeanSum             float64  `json:"meanSum"`
	MeanConsecutiveRuns float64  `json:"meanConsecutiveRuns"`
	MeanEvenCount       float64  `json:"meanEvenCount"`
	SumRange            SumRange `json:"sumRange"`
	ModalEvenCount      int      `json:"modalEvenCount"`
}

// NumberCounts holds raw occurrence counts per number, index 1..45.
type NumberCounts [MaxNumber + 1]int

// StatisticSets is everything the analyzer derives from one history snapshot.
// Each set is nil when the snapshot had no records.
type StatisticSets struct {
	Version      uint64
	Frequency    *WeightTable
	Trend        *WeightTable
	Pattern      *PatternSummary
	Counts       *NumberCounts
	RecentCounts *NumberCounts
}
