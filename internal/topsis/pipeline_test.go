package topsis

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func phoneTable() *Table {
	return &Table{
		Header: []string{"Model", "Price", "Storage", "Camera", "Looks"},
		Rows: [][]string{
			{"M1", "250", "16", "12", "5"},
			{"M2", "200", "16", "8", "3"},
			{"M3", "300", "32", "16", "4"},
			{"M4", "275", "32", "8", "4"},
			{"M5", "225", "16", "16", "2"},
		},
	}
}

func TestProcessMatchesReferenceScores(t *testing.T) {
	result, err := NewScorer().Process(phoneTable(), []float64{0.25, 0.25, 0.25, 0.25}, []string{"-", "+", "+", "+"})
	require.NoError(t, err)

	expected := []float64{
		0.5342768571821003,
		0.3083677687324685,
		0.6916322312675315,
		0.534736584486838,
		0.40104612151678615,
	}
	for i, want := range expected {
		assert.InDelta(t, want, result.Scores[i], 1e-9, "row %d", i)
	}
	assert.Equal(t, []int{3, 5, 1, 2, 4}, result.Ranks)
}

func TestResultRecords(t *testing.T) {
	result, err := NewScorer().Process(phoneTable(), []float64{1, 1, 1, 1}, []string{"-", "+", "+", "+"})
	require.NoError(t, err)

	records := result.Records()
	require.Len(t, records, 6)
	assert.Equal(t, []string{"Model", "Price", "Storage", "Camera", "Looks", "Topsis Score", "Rank"}, records[0])
	for i, row := range phoneTable().Rows {
		assert.Equal(t, row, records[i+1][:5], "row order must be preserved")
		assert.Equal(t, strconv.Itoa(result.Ranks[i]), records[i+1][6])
	}
}

func TestScoreProperties(t *testing.T) {
	table := randomTable(40, 5)
	weights := []float64{1, 2, 3, 0.5, 1}
	impacts := []string{"+", "-", "+", "-", "+"}

	first, err := NewScorer().Process(table, weights, impacts)
	require.NoError(t, err)

	t.Run("scores lie in the unit interval", func(t *testing.T) {
		for _, s := range first.Scores {
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	})

	t.Run("rank one holds the maximum score", func(t *testing.T) {
		best := 0
		for i, s := range first.Scores {
			if s > first.Scores[best] {
				best = i
			}
		}
		assert.Equal(t, 1, first.Ranks[best])
	})

	t.Run("ranks follow descending scores", func(t *testing.T) {
		for i := range first.Scores {
			for j := range first.Scores {
				if first.Scores[i] > first.Scores[j] {
					assert.Less(t, first.Ranks[i], first.Ranks[j])
				}
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		second, err := NewScorer().Process(table, weights, impacts)
		require.NoError(t, err)
		assert.Equal(t, first.Scores, second.Scores)
		assert.Equal(t, first.Ranks, second.Ranks)
	})

	t.Run("uniform weight scaling keeps the ranking", func(t *testing.T) {
		scaled := make([]float64, len(weights))
		for i, w := range weights {
			scaled[i] = w * 7.5
		}
		second, err := NewScorer().Process(table, scaled, impacts)
		require.NoError(t, err)
		assert.Equal(t, first.Ranks, second.Ranks)
	})
}

func TestScoreEdgeCases(t *testing.T) {
	t.Run("single row gets the degenerate score", func(t *testing.T) {
		table := &Table{Header: []string{"id", "a", "b"}, Rows: [][]string{{"only", "3", "4"}}}

		result, err := NewScorer().Process(table, []float64{1, 1}, []string{"+", "-"})
		require.NoError(t, err)
		assert.Equal(t, []float64{DefaultDegenerateScore}, result.Scores)
		assert.Equal(t, []int{1}, result.Ranks)
	})

	t.Run("degenerate score is configurable", func(t *testing.T) {
		table := &Table{Header: []string{"id", "a", "b"}, Rows: [][]string{{"x", "1", "1"}, {"y", "1", "1"}}}

		result, err := NewScorer(WithDegenerateScore(0)).Process(table, []float64{1, 1}, []string{"+", "+"})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, result.Scores)
		assert.Equal(t, []int{1, 1}, result.Ranks)
	})

	t.Run("constant column does not error", func(t *testing.T) {
		table := &Table{Header: []string{"id", "a", "b"}, Rows: [][]string{{"x", "5", "1"}, {"y", "5", "2"}}}

		result, err := NewScorer().Process(table, []float64{1, 1}, []string{"+", "+"})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1}, result.Scores)
		assert.Equal(t, []int{2, 1}, result.Ranks)
	})

	t.Run("all-zero column is rejected", func(t *testing.T) {
		table := &Table{Header: []string{"id", "a", "b"}, Rows: [][]string{{"x", "0", "1"}, {"y", "0", "2"}}}

		_, err := NewScorer().Process(table, []float64{1, 1}, []string{"+", "+"})
		require.ErrorIs(t, err, ErrDegenerateColumn)
		assert.Contains(t, err.Error(), "a")
	})
}

func TestIdealPoints(t *testing.T) {
	weighted := mat.NewDense(3, 2, []float64{
		1, 6,
		3, 5,
		2, 4,
	})

	best, worst := IdealPoints(weighted, []Impact{Maximize, Minimize})
	assert.Equal(t, []float64{3, 4}, best)
	assert.Equal(t, []float64{1, 6}, worst)
}

func TestNormalizeColumns(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{
		3, 1,
		4, 1,
	})

	normalized, err := NormalizeColumns(m, []string{"a", "b"})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, normalized.At(0, 0), 1e-12)
	assert.InDelta(t, 0.8, normalized.At(1, 0), 1e-12)
	assert.InDelta(t, 1/1.4142135623730951, normalized.At(0, 1), 1e-12)
}

func TestClosenessClamped(t *testing.T) {
	scores := Closeness([]float64{0, 1, 0}, []float64{2, 1, 0}, 0.25)
	assert.Equal(t, []float64{1, 0.5, 0.25}, scores)
}

func TestPlotScoresTerminal(t *testing.T) {
	result, err := NewScorer().Process(phoneTable(), []float64{1, 1, 1, 1}, []string{"-", "+", "+", "+"})
	require.NoError(t, err)

	var buf bytes.Buffer
	PlotScoresTerminal(&buf, result, "Phones")

	out := buf.String()
	assert.Contains(t, out, "Phones:")
	assert.Contains(t, out, "M3")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("M3")), bytes.Index(buf.Bytes(), []byte("M2")))
}

func TestPlotScoresTerminalAlignsNonASCII(t *testing.T) {
	table := &Table{
		Header: []string{"Café", "a", "b"},
		Rows: [][]string{
			{"Café-Ümlaut-Straße", "1", "2"},
			{"plain", "2", "1"},
			{"Ω", "3", "3"},
		},
	}
	result, err := NewScorer().Process(table, []float64{1, 1}, []string{"+", "+"})
	require.NoError(t, err)

	var buf bytes.Buffer
	PlotScoresTerminal(&buf, result, "Accents")

	separators := func(line string) []int {
		var cols []int
		for i, r := range []rune(line) {
			if r == '|' {
				cols = append(cols, i)
			}
		}
		return cols[:2]
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")[1:]
	require.Len(t, lines, 5)
	want := separators(lines[0])
	for _, line := range lines[1:] {
		assert.Equal(t, want, separators(line), line)
	}
}

func randomTable(rows, cols int) *Table {
	header := []string{"id"}
	for c := range cols {
		header = append(header, fmt.Sprintf("c%d", c))
	}

	table := &Table{Header: header}
	for r := range rows {
		row := []string{fmt.Sprintf("alt-%d", r)}
		for range cols {
			row = append(row, strconv.FormatFloat(1+rand.Float64()*100, 'f', -1, 64))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func BenchmarkProcess(b *testing.B) {
	sizes := []struct {
		rows     int
		criteria int
	}{
		{250, 4},
		{250, 10},
		{5000, 10},
	}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Rows%d_Criteria%d", size.rows, size.criteria), func(b *testing.B) {
			table := randomTable(size.rows, size.criteria)
			weights := make([]float64, size.criteria)
			impacts := make([]string, size.criteria)
			for i := range weights {
				weights[i] = 1
				impacts[i] = "+"
			}

			scorer := NewScorer()
			b.ResetTimer()
			for b.Loop() {
				_, _ = scorer.Process(table, weights, impacts)
			}
		})
	}
}
