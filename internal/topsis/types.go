package topsis

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const (
	ScoreColumn = "Topsis Score"
	RankColumn  = "Rank"

	// MinColumns is the identifier column plus two criteria.
	MinColumns = 3
)

// Impact says whether larger values of a criterion are better or worse.
type Impact int

const (
	Maximize Impact = iota
	Minimize
)

func (i Impact) String() string {
	if i == Minimize {
		return "minimize"
	}
	return "maximize"
}

// ParseImpact accepts maximize|max|up|+ and minimize|min|down|-.
func ParseImpact(tag string) (Impact, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "maximize", "max", "up", "+":
		return Maximize, true
	case "minimize", "min", "down", "-":
		return Minimize, true
	}
	return 0, false
}

// Table is the raw alternative table: a header row followed by data rows.
// The first column identifies the alternative, the rest are criteria.
type Table struct {
	Header []string
	Rows   [][]string
}

// Criteria returns the criterion column names.
func (t *Table) Criteria() []string {
	if len(t.Header) == 0 {
		return nil
	}
	return t.Header[1:]
}

// Input is a validated table ready for scoring.
type Input struct {
	Table    *Table
	Matrix   *mat.Dense // rows x criteria
	Weights  []float64
	Impacts  []Impact
	Criteria []string
}

// Scores holds the intermediate and final values of one scoring run.
type Scores struct {
	Normalized    *mat.Dense
	Weighted      *mat.Dense
	IdealBest     []float64
	IdealWorst    []float64
	DistanceBest  []float64
	DistanceWorst []float64
	Closeness     []float64
	Ranks         []int
}

// Result is the input table augmented with a score and rank per row.
type Result struct {
	Table  *Table
	Scores []float64
	Ranks  []int
}

// Header returns the input header with the score and rank columns appended.
func (r *Result) Header() []string {
	header := make([]string, 0, len(r.Table.Header)+2)
	header = append(header, r.Table.Header...)
	return append(header, ScoreColumn, RankColumn)
}

// Records renders the result table, header first, in input row order.
func (r *Result) Records() [][]string {
	records := make([][]string, 0, len(r.Table.Rows)+1)
	records = append(records, r.Header())
	for i, row := range r.Table.Rows {
		rec := make([]string, 0, len(row)+2)
		rec = append(rec, row...)
		rec = append(rec,
			strconv.FormatFloat(r.Scores[i], 'f', -1, 64),
			strconv.Itoa(r.Ranks[i]),
		)
		records = append(records, rec)
	}
	return records
}
