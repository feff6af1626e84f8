package topsis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Validate checks table, weights and impacts in a fixed order and returns the
// first failure. On success the criterion cells are parsed into a matrix.
func Validate(table *Table, weights []float64, impacts []string) (*Input, error) {
	if table == nil || len(table.Header) == 0 {
		return nil, EmptyInputErrorf("input has no header row")
	}

	if len(table.Header) < MinColumns {
		return nil, newError(KindShape, fmt.Sprintf("input must have at least %d columns, got %d", MinColumns, len(table.Header)))
	}

	for i, row := range table.Rows {
		if len(row) != len(table.Header) {
			return nil, newError(KindShape, fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(row), len(table.Header)))
		}
	}

	criteria := table.Criteria()
	n := len(criteria)

	if len(weights) != n {
		return nil, newError(KindShape, fmt.Sprintf("weights must match number of criteria: got %d, want %d", len(weights), n))
	}

	if len(impacts) != n {
		return nil, newError(KindShape, fmt.Sprintf("impacts must match number of criteria: got %d, want %d", len(impacts), n))
	}

	parsedImpacts := make([]Impact, n)
	var badImpacts []string
	for i, tag := range impacts {
		impact, ok := ParseImpact(tag)
		if !ok {
			badImpacts = append(badImpacts, strconv.Quote(tag))
			continue
		}
		parsedImpacts[i] = impact
	}
	if len(badImpacts) > 0 {
		return nil, newError(KindValue, "impacts must be 'maximize' or 'minimize' (or up/down, +/-), invalid", badImpacts...)
	}

	var badWeights []string
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			badWeights = append(badWeights, fmt.Sprintf("%s=%v", criteria[i], w))
		}
	}
	if len(badWeights) > 0 {
		return nil, newError(KindValue, "weights must be positive finite numbers, invalid", badWeights...)
	}

	matrix, err := parseCriteria(table, criteria)
	if err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		return nil, EmptyInputErrorf("input has no data rows")
	}

	return &Input{
		Table:    table,
		Matrix:   matrix,
		Weights:  append([]float64(nil), weights...),
		Impacts:  parsedImpacts,
		Criteria: criteria,
	}, nil
}

// parseCriteria converts every criterion cell to float64 and names every
// column holding a cell that is not a finite number.
func parseCriteria(table *Table, criteria []string) (*mat.Dense, error) {
	rows, cols := len(table.Rows), len(criteria)

	data := make([]float64, rows*cols)
	bad := make([]bool, cols)
	for r, row := range table.Rows {
		for c := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c+1]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				bad[c] = true
				continue
			}
			data[r*cols+c] = v
		}
	}

	var badColumns []string
	for c, isBad := range bad {
		if isBad {
			badColumns = append(badColumns, criteria[c])
		}
	}
	if len(badColumns) > 0 {
		return nil, newError(KindType, "non-numeric values in criterion columns", badColumns...)
	}

	if rows == 0 {
		return nil, nil
	}
	return mat.NewDense(rows, cols, data), nil
}

// ParseWeights parses a comma separated weight list such as "1,1,2,0.5".
func ParseWeights(s string) ([]float64, error) {
	fields := splitList(s)
	weights := make([]float64, len(fields))
	var bad []string
	for i, f := range fields {
		w, err := strconv.ParseFloat(f, 64)
		if err != nil {
			bad = append(bad, strconv.Quote(f))
			continue
		}
		weights[i] = w
	}
	if len(bad) > 0 {
		return nil, newError(KindValue, "weights must be numbers, invalid", bad...)
	}
	return weights, nil
}

// ParseImpacts splits a comma separated impact list such as "+,-,+". Tags are
// checked by Validate.
func ParseImpacts(s string) []string {
	return splitList(s)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
