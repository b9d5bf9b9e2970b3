package model

import (
	"math"
	"strconv"
)

// Pinned is a sanitized list of numbers every generated combination must contain.
// It holds at most PickCount distinct numbers in order of first appearance.
type Pinned []int

// NewPinned filters arbitrary decoded values down to a Pinned selection.
// Out of range, non-integral, non-numeric and repeated values are dropped,
// as is everything after the sixth accepted value. It never fails.
func NewPinned(values []any) Pinned {
	p := make(Pinned, 0, PickCount)
	for _, v := range values {
		if len(p) == PickCount {
			break
		}
		n, ok := pinnedValue(v)
		if !ok || p.Contains(n) {
			continue
		}
		p = append(p, n)
	}
	return p
}

// PinnedOf is NewPinned for values already known to be ints.
func PinnedOf(numbers ...int) Pinned {
	values := make([]any, len(numbers))
	for i, n := range numbers {
		values[i] = n
	}
	return NewPinned(values)
}

func (p Pinned) Contains(n int) bool {
	for _, v := range p {
		if v == n {
			return true
		}
	}
	return false
}

func pinnedValue(v any) (int, bool) {
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		n = int(t)
	case string:
		if t == "" {
			return 0, false
		}
		for _, r := range t {
			if r < '0' || r > '9' {
				return 0, false
			}
		}
		parsed, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if n < MinNumber || n > MaxNumber {
		return 0, false
	}
	return n, true
}
