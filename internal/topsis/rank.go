package topsis

import (
	"math"
	"sort"
)

// DenseRank ranks scores in descending order starting at 1. Scores within
// tolerance of the previous distinct score share its rank and the next
// distinct score takes the following integer, so ranks have no gaps.
func DenseRank(scores []float64, tolerance float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}

	// stable so equal scores keep input order
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranks := make([]int, len(scores))
	rank := 0
	var anchor float64
	for pos, idx := range order {
		if pos == 0 || math.Abs(anchor-scores[idx]) > tolerance {
			rank++
			anchor = scores[idx]
		}
		ranks[idx] = rank
	}

	return ranks
}
