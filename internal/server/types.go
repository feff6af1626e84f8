package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/evaluator"
	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/utils/redis"
)

const (
	EvaluatePath = "/v1/topsis"
	HealthPath   = "/health"
	MetricsPath  = "/metrics"

	RequestIDHeader = "x-request-id"
	CacheHeader     = "x-cache"
)

// Server exposes the evaluator over HTTP.
type Server struct {
	App       *fiber.App
	config    *config.ServerEnvConfig
	evaluator *evaluator.Evaluator
	metrics   *metrics.Registry
	cache     redis.RedisInterface
	cacheTTL  time.Duration
}

// EvaluateRequest carries one table plus its scoring parameters.
type EvaluateRequest struct {
	Header  []string   `json:"header"`
	Rows    [][]string `json:"rows"`
	Weights []float64  `json:"weights"`
	Impacts []string   `json:"impacts"`
}

// EvaluateResponse returns the table with scores and ranks in row order.
type EvaluateResponse struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Scores []float64  `json:"scores"`
	Ranks  []int      `json:"ranks"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// StdResponse represents the standardized response structure
type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
	Kind  *string `json:"kind,omitempty"`
}
