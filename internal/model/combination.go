package model

import (
	"slices"

	"github.com/pkg/errors"
)

var ErrInvalidCombination = errors.New("invalid combination")

// Combination is a predicted set of PickCount distinct numbers in ascending order.
type Combination [PickCount]int

// FallbackCombination is served for a model whose generation failed.
var FallbackCombination = Combination{3, 11, 19, 27, 35, 43}

// NewCombination sorts numbers and checks that they form a valid combination.
func NewCombination(numbers []int) (Combination, error) {
	var c Combination
	if len(numbers) != PickCount {
		return c, errors.Wrapf(ErrInvalidCombination, "expected %d numbers, got %d", PickCount, len(numbers))
	}
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)
	copy(c[:], sorted)
	if !c.Valid() {
		return Combination{}, errors.Wrapf(ErrInvalidCombination, "%v", numbers)
	}
	return c, nil
}

// Valid reports whether c is strictly ascending within [MinNumber, MaxNumber].
func (c Combination) Valid() bool {
	for i, n := range c {
		if n < MinNumber || n > MaxNumber {
			return false
		}
		if i > 0 && c[i-1] >= n {
			return false
		}
	}
	return true
}

func (c Combination) Contains(n int) bool {
	return slices.Contains(c[:], n)
}

// Covers reports whether every pinned number is part of c.
func (c Combination) Covers(pinned Pinned) bool {
	for _, n := range pinned {
		if !c.Contains(n) {
			return false
		}
	}
	return true
}

func (c Combination) Sum() int {
	s := 0
	for _, n := range c {
		s += n
	}
	return s
}
