package topsis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DistancesTo returns the Euclidean distance between every row of m and ref.
func DistancesTo(m *mat.Dense, ref []float64) []float64 {
	rows, _ := m.Dims()

	distances := make([]float64, rows)
	for rowIdx := range rows {
		row := mat.Row(nil, rowIdx, m)
		distances[rowIdx] = floats.Distance(row, ref, 2)
	}

	return distances
}

// Closeness computes dWorst / (dBest + dWorst) per row. Rows sitting on both
// ideal points at once get degenerateScore.
func Closeness(dBest, dWorst []float64, degenerateScore float64) []float64 {
	scores := make([]float64, len(dBest))

	for i := range dBest {
		total := dBest[i] + dWorst[i]
		if total == 0 {
			scores[i] = degenerateScore
			continue
		}

		score := dWorst[i] / total
		if math.IsNaN(score) {
			score = degenerateScore
		}

		scores[i] = math.Min(1, math.Max(0, score))
	}

	return scores
}
