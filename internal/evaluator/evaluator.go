// Package evaluator is the outer boundary around the scorer: it loads input,
// runs validation and scoring, and guarantees every failure reaches the caller
// as a classified *topsis.Error.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/dataset"
	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/topsis"
)

const (
	SourceFile  = "file"
	SourceTable = "table"
)

type Evaluator struct {
	scorer  *topsis.Scorer
	metrics *metrics.Registry
	load    func(path string) (*topsis.Table, error)
}

type Option func(*Evaluator)

func WithMetrics(m *metrics.Registry) Option {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

func WithLoader(load func(path string) (*topsis.Table, error)) Option {
	return func(e *Evaluator) {
		e.load = load
	}
}

func New(scorer *topsis.Scorer, opts ...Option) *Evaluator {
	if scorer == nil {
		scorer = topsis.NewScorer()
	}

	e := &Evaluator{
		scorer: scorer,
		load:   dataset.Load,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Params returns the scorer settings every result depends on.
func (e *Evaluator) Params() topsis.ScorerParams {
	return e.scorer.Params
}

// EvaluateFile loads the table at path and scores it.
func (e *Evaluator) EvaluateFile(ctx context.Context, path string, weights []float64, impacts []string) (*topsis.Result, error) {
	return e.evaluateFile(ctx, path, func() ([]float64, []string, error) {
		return weights, impacts, nil
	})
}

// EvaluateFileArgs is EvaluateFile for comma separated weight and impact
// lists. The file is loaded before the lists are parsed, so a missing or
// unreadable file is reported ahead of a bad weight.
func (e *Evaluator) EvaluateFileArgs(ctx context.Context, path, weightsList, impactsList string) (*topsis.Result, error) {
	return e.evaluateFile(ctx, path, func() ([]float64, []string, error) {
		weights, err := topsis.ParseWeights(weightsList)
		if err != nil {
			return nil, nil, err
		}
		return weights, topsis.ParseImpacts(impactsList), nil
	})
}

func (e *Evaluator) evaluateFile(ctx context.Context, path string, params func() ([]float64, []string, error)) (result *topsis.Result, err error) {
	startTime := time.Now()
	defer func() { e.observe(SourceFile, result, err, startTime) }()
	defer e.recoverInto(&err)

	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}

	table, err := e.load(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("failed to load input")
		return nil, classify(err)
	}

	weights, impacts, err := params()
	if err != nil {
		return nil, classify(err)
	}

	result, err = e.scorer.Process(table, weights, impacts)
	if err != nil {
		return nil, classify(err)
	}

	log.Info().
		Str("path", path).
		Int("alternatives", len(result.Scores)).
		Dur("elapsed", time.Since(startTime)).
		Msg("evaluated file")

	return result, nil
}

// EvaluateTable scores an in-memory table.
func (e *Evaluator) EvaluateTable(ctx context.Context, table *topsis.Table, weights []float64, impacts []string) (result *topsis.Result, err error) {
	startTime := time.Now()
	defer func() { e.observe(SourceTable, result, err, startTime) }()
	defer e.recoverInto(&err)

	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}

	result, err = e.scorer.Process(table, weights, impacts)
	if err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// classify passes typed errors through and wraps everything else as an
// InternalError with a stack trace attached.
func classify(err error) error {
	var typed *topsis.Error
	if errors.As(err, &typed) {
		return err
	}

	internal := topsis.Internal(pkgerrors.WithStack(err))
	log.Error().Stack().Err(internal.Cause).Msg("unexpected failure during evaluation")
	return internal
}

func (e *Evaluator) recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = classify(fmt.Errorf("panic: %v", r))
	}
}

func (e *Evaluator) observe(source string, result *topsis.Result, err error, startTime time.Time) {
	outcome, alternatives := "ok", 0
	if err != nil {
		outcome = topsis.KindOf(err).String()
	} else if result != nil {
		alternatives = len(result.Scores)
	}
	e.metrics.ObserveEvaluation(source, outcome, alternatives, time.Since(startTime))
}
