// Package topsis ranks alternatives with the Technique for Order Preference
// by Similarity to Ideal Solution.
package topsis

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/utils/logger"
)

type ScorerParams struct {
	DegenerateScore float64
	TieTolerance    float64
}

type Scorer struct {
	Params ScorerParams
}

type ScorerOption func(*Scorer)

func WithDegenerateScore(score float64) ScorerOption {
	return func(s *Scorer) {
		s.Params.DegenerateScore = score
	}
}

func WithTieTolerance(tolerance float64) ScorerOption {
	return func(s *Scorer) {
		s.Params.TieTolerance = tolerance
	}
}

func WithScorerParams(params ScorerParams) ScorerOption {
	return func(s *Scorer) {
		s.Params = params
	}
}

func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{
		Params: DefaultScorerParams(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score runs normalization, weighting, ideal points, distances, closeness and
// ranking over a validated input.
func (s *Scorer) Score(in *Input) (*Scores, error) {
	startTime := time.Now()

	normalized, err := NormalizeColumns(in.Matrix, in.Criteria)
	if err != nil {
		return nil, err
	}

	weighted := ApplyWeights(normalized, in.Weights)
	best, worst := IdealPoints(weighted, in.Impacts)

	dBest := DistancesTo(weighted, best)
	dWorst := DistancesTo(weighted, worst)

	closeness := Closeness(dBest, dWorst, s.Params.DegenerateScore)
	ranks := DenseRank(closeness, s.Params.TieTolerance)

	log.Debug().
		Int("alternatives", len(closeness)).
		Int("criteria", len(in.Criteria)).
		Floats64("ideal_best", best).
		Floats64("ideal_worst", worst).
		Dur("elapsed", time.Since(startTime)).
		Msg("scored alternatives")

	return &Scores{
		Normalized:    normalized,
		Weighted:      weighted,
		IdealBest:     best,
		IdealWorst:    worst,
		DistanceBest:  dBest,
		DistanceWorst: dWorst,
		Closeness:     closeness,
		Ranks:         ranks,
	}, nil
}

// Process validates then scores, returning the augmented result table.
func (s *Scorer) Process(table *Table, weights []float64, impacts []string) (*Result, error) {
	in, err := Validate(table, weights, impacts)
	if err != nil {
		return nil, err
	}

	scores, err := s.Score(in)
	if err != nil {
		return nil, err
	}

	logger.Sugar().Infow("Processed table with scorer params", "params", s.Params, "rows", len(table.Rows))

	return &Result{
		Table:  table,
		Scores: scores.Closeness,
		Ranks:  scores.Ranks,
	}, nil
}
