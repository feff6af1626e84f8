// Package server exposes TOPSIS evaluation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/evaluator"
	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/topsis"
	"github.com/tensorplex-labs/topsis/internal/utils/redis"
)

type Option func(*Server)

// WithCache memoizes responses for identical requests.
func WithCache(cache redis.RedisInterface, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates the HTTP server. A nil config uses the environment
// defaults.
func NewServer(cfg *config.ServerEnvConfig, ev *evaluator.Evaluator, opts ...Option) *Server {
	if cfg == nil {
		cfg = &config.ServerEnvConfig{
			Address:       "0.0.0.0",
			Port:          8888,
			BodySizeLimit: 4 * 1024 * 1024,
		}
	}
	if ev == nil {
		ev = evaluator.New(nil)
	}

	log.Info().
		Any("serverConfig", cfg).
		Msg("Server configuration loaded")

	app := fiber.New(fiber.Config{
		Prefork:               false,
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		BodyLimit:             cfg.BodySizeLimit,
	})

	app.Use(recover.New()) // add panic recovery
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(ZstdMiddleware([]string{HealthPath, MetricsPath}, cfg.BodySizeLimit))

	s := &Server{
		App:       app,
		config:    cfg,
		evaluator: ev,
	}

	for _, opt := range opts {
		opt(s)
	}

	app.Get(HealthPath, s.handleHealth)
	app.Post(EvaluatePath, s.handleEvaluate)
	if s.metrics != nil {
		app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.Gatherer(), promhttp.HandlerOpts{})))
	}

	return s
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(createResponse(map[string]interface{}{}, err))
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok"})
}

func (s *Server) handleEvaluate(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set(RequestIDHeader, requestID)

	var req EvaluateRequest
	if err := sonic.Unmarshal(c.Body(), &req); err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("failed to unmarshal evaluate request")
		return c.Status(fiber.StatusBadRequest).
			JSON(createResponse(map[string]interface{}{}, topsis.FormatErrorf("invalid JSON payload: %v", err)))
	}

	ctx := c.UserContext()

	digest := ""
	if s.cache != nil {
		if d, err := requestDigest(req, s.evaluator.Params()); err == nil {
			digest = d
			if cached, ok := s.lookup(ctx, digest); ok {
				c.Set(CacheHeader, "HIT")
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Send(cached)
			}
		}
	}

	table := &topsis.Table{Header: req.Header, Rows: req.Rows}
	result, err := s.evaluator.EvaluateTable(ctx, table, req.Weights, req.Impacts)
	if err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Str("kind", topsis.KindOf(err).String()).Msg("evaluation rejected")
		return c.Status(statusFor(topsis.KindOf(err))).JSON(createResponse(map[string]interface{}{}, err))
	}

	resp := createResponse(newEvaluateResponse(result), nil)

	body, err := sonic.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	if digest != "" {
		s.store(ctx, digest, body)
		c.Set(CacheHeader, "MISS")
	}

	log.Info().
		Str("request_id", requestID).
		Int("alternatives", len(result.Scores)).
		Msg("evaluated request")

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (s *Server) lookup(ctx context.Context, digest string) ([]byte, bool) {
	cached, err := s.cache.Get(ctx, redis.Key(digest))
	if err != nil {
		log.Warn().Err(err).Msg("cache lookup failed")
		return nil, false
	}
	hit := cached != ""
	s.metrics.ObserveCache(hit)
	return []byte(cached), hit
}

func (s *Server) store(ctx context.Context, digest string, body []byte) {
	if err := s.cache.Set(ctx, redis.Key(digest), string(body), s.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("cache store failed")
	}
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("server listening")
		errCh <- s.App.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("server shutting down")
	return s.App.ShutdownWithContext(ctx)
}
