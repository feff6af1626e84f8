package topsis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// L2Normalize divides arr by its Euclidean norm. ok is false when the norm is
// zero, in which case arr is returned unchanged.
func L2Normalize(arr []float64) (result []float64, ok bool) {
	result = make([]float64, len(arr))
	copy(result, arr)

	norm := floats.Norm(result, 2)
	if norm == 0 {
		return result, false
	}

	floats.Scale(1.0/norm, result)
	return result, true
}

// NormalizeColumns applies vector normalization to every column of m
// independently. Columns with a zero norm are reported by name.
func NormalizeColumns(m *mat.Dense, criteria []string) (*mat.Dense, error) {
	rows, cols := m.Dims()

	normalized := mat.NewDense(rows, cols, nil)

	var degenerate []string
	for colIdx := range cols {
		column := mat.Col(nil, colIdx, m)
		unit, ok := L2Normalize(column)
		if !ok {
			degenerate = append(degenerate, criteria[colIdx])
			continue
		}
		normalized.SetCol(colIdx, unit)
	}

	if len(degenerate) > 0 {
		return nil, newError(KindDegenerateColumn, "criterion columns have zero norm (all values are zero)", degenerate...)
	}

	return normalized, nil
}

// ApplyWeights scales each column of m by the matching weight.
func ApplyWeights(m *mat.Dense, weights []float64) *mat.Dense {
	rows, cols := m.Dims()

	weighted := mat.NewDense(rows, cols, nil)
	weighted.Apply(func(_, j int, v float64) float64 {
		return v * weights[j]
	}, m)

	return weighted
}
