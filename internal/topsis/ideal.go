package topsis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IdealPoints returns the per-criterion best and worst values of the weighted
// matrix. A constant column yields best == worst.
func IdealPoints(weighted *mat.Dense, impacts []Impact) (best, worst []float64) {
	_, cols := weighted.Dims()

	best = make([]float64, cols)
	worst = make([]float64, cols)

	for colIdx := range cols {
		column := mat.Col(nil, colIdx, weighted)
		hi, lo := floats.Max(column), floats.Min(column)

		if impacts[colIdx] == Minimize {
			best[colIdx], worst[colIdx] = lo, hi
		} else {
			best[colIdx], worst[colIdx] = hi, lo
		}
	}

	return best, worst
}
