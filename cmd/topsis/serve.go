package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/topsis/internal/evaluator"
	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/server"
	"github.com/tensorplex-labs/topsis/internal/topsis"
	"github.com/tensorplex-labs/topsis/internal/utils/redis"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scorer over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			m := metrics.NewRegistry()
			scorer := topsis.NewScorer(
				topsis.WithDegenerateScore(cfg.DegenerateScore),
				topsis.WithTieTolerance(cfg.TieTolerance),
			)
			ev := evaluator.New(scorer, evaluator.WithMetrics(m))

			opts := []server.Option{server.WithMetrics(m)}
			if cfg.RedisEnabled {
				cache, err := redis.NewRedis(&cfg.RedisEnvConfig)
				if err != nil {
					return err
				}
				defer cache.Close()
				opts = append(opts, server.WithCache(cache, cfg.RedisTTL))
				log.Info().Str("host", cfg.RedisHost).Int("port", cfg.RedisPort).Msg("result cache enabled")
			}

			return server.NewServer(&cfg.ServerEnvConfig, ev, opts...).Start(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides SERVER_PORT)")
	return cmd
}
