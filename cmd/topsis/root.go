package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/utils/logger"
)

type rootFlags struct {
	debug bool
	trace bool
	info  bool
	quiet bool
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "topsis",
		Short:         "Rank alternatives by similarity to the ideal solution",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Options{
				Debug: flags.debug,
				Trace: flags.trace,
				Info:  flags.info,
				Quiet: flags.quiet,
			})
		},
	}

	addLogFlags(root.PersistentFlags(), flags)

	root.AddCommand(scoreCmd(), serveCmd(), remoteCmd())
	return root
}

func addLogFlags(fs *pflag.FlagSet, flags *rootFlags) {
	fs.BoolVar(&flags.debug, "debug", false, "sets log level to debug")
	fs.BoolVar(&flags.trace, "trace", false, "sets log level to trace")
	fs.BoolVar(&flags.info, "info", false, "sets log level to info (default)")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "only log warnings and errors")
}

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log.Debug().Any("config", cfg.TopsisEnvConfig).Msg("configuration loaded")
	return cfg, nil
}
