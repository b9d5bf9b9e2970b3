package drawstat

import (
	"github.com/ahmetb/go-linq/v3"

	"github.com/lottopro/backend/internal/model"
)

// Hottest returns the k numbers with the highest counts, ties broken by the
// smaller number. A nil counts table ranks every number at zero.
func Hottest(counts *model.NumberCounts, k int) []model.NumberCount {
	return rank(counts, k, true)
}

// Coldest returns the k numbers with the lowest counts, ties broken by the
// smaller number.
func Coldest(counts *model.NumberCounts, k int) []model.NumberCount {
	return rank(counts, k, false)
}

func rank(counts *model.NumberCounts, k int, descending bool) []model.NumberCount {
	pairs := make([]model.NumberCount, 0, model.MaxNumber)
	for n := model.MinNumber; n <= model.MaxNumber; n++ {
		c := 0
		if counts != nil {
			c = counts[n]
		}
		pairs = append(pairs, model.NumberCount{n, c})
	}

	q := linq.From(pairs)
	var ordered linq.OrderedQuery
	if descending {
		ordered = q.OrderByDescendingT(func(p model.NumberCount) int { return p.Count() })
	} else {
		ordered = q.OrderByT(func(p model.NumberCount) int { return p.Count() })
	}

	var result []model.NumberCount
	ordered.
		ThenByT(func(p model.NumberCount) int { return p.Number() }).
		Take(k).
		ToSlice(&result)
	return result
}
