package source

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/lottopro/backend/internal/model"
)

// Normalize drops repeated rounds, keeping the first occurrence, and orders
// draws newest first.
func Normalize(draws []model.Draw) []model.Draw {
	unique := lo.UniqBy(draws, func(d model.Draw) int { return d.Round })
	slices.SortStableFunc(unique, func(a, b model.Draw) int {
		return b.Round - a.Round
	})
	return unique
}

// parseInt reads an integer cell. Spreadsheet exports sometimes render
// integers as "12.0" or with thousands separators, both are accepted.
func parseInt(cell string) (int, bool) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
