package topsis

const (
	// DefaultDegenerateScore is assigned when a row coincides with both the
	// ideal-best and ideal-worst points.
	DefaultDegenerateScore = 0.5

	// DefaultTieTolerance is the largest score difference still ranked as a tie.
	DefaultTieTolerance = 1e-12
)

func DefaultScorerParams() ScorerParams {
	return ScorerParams{
		DegenerateScore: DefaultDegenerateScore,
		TieTolerance:    DefaultTieTolerance,
	}
}
