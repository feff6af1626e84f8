package topsis

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// PlotScoresTerminal draws one horizontal bar per alternative, best rank
// first.
func PlotScoresTerminal(w io.Writer, result *Result, title string) {
	type alternativeScore struct {
		ID    string
		Score float64
		Rank  int
	}

	if len(result.Scores) == 0 {
		return
	}

	alternatives := make([]alternativeScore, len(result.Scores))
	for i := range result.Scores {
		alternatives[i] = alternativeScore{
			ID:    result.Table.Rows[i][0],
			Score: result.Scores[i],
			Rank:  result.Ranks[i],
		}
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Rank < alternatives[j].Rank
	})

	// fmt pads by runes
	idWidth := len("Alternative")
	for _, a := range alternatives {
		idWidth = max(idWidth, utf8.RuneCountInString(a.ID))
	}

	const maxBarWidth = 50

	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "Rank | %-*s | Score    | Bar Chart\n", idWidth, "Alternative")
	fmt.Fprintf(w, "-----|-%s-|----------|%s\n", strings.Repeat("-", idWidth), strings.Repeat("-", maxBarWidth))

	for _, a := range alternatives {
		barWidth := int(a.Score * maxBarWidth)

		bar := strings.Repeat("█", barWidth)
		if barWidth == 0 {
			bar = "▏"
		}

		fmt.Fprintf(w, "%4d | %-*s | %.6f | %s\n", a.Rank, idWidth, a.ID, a.Score, bar)
	}
}
