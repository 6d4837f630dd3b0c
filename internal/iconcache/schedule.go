package iconcache

import (
	"math"
	"time"
)

// DefaultStaggerRatio is the geometric ratio between successive start gaps.
const DefaultStaggerRatio = 0.85

// Schedule returns the start delay of each of n loads. The first starts at
// floor and the last at floor+window; the gaps between starts shrink by
// ratio each step, so the cascade opens slowly and then accelerates.
// Delays are non-decreasing in index order.
func Schedule(n int, floor, window time.Duration, ratio float64) []time.Duration {
	if n <= 0 {
		return nil
	}
	if floor < 0 {
		floor = 0
	}
	if window < 0 {
		window = 0
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultStaggerRatio
	}

	delays := make([]time.Duration, n)
	if n == 1 {
		delays[0] = floor
		return delays
	}

	total := 1 - math.Pow(ratio, float64(n-1))
	for i := range delays {
		share := (1 - math.Pow(ratio, float64(i))) / total
		delays[i] = floor + time.Duration(share*float64(window))
	}
	delays[n-1] = floor + window
	return delays
}
