// Package logger provides a global logger for the application
package logger

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/zap"
)

var Logger *zap.Logger

// Options overrides the level derived from ENVIRONMENT. Flags are owned by the
// caller's command line parser.
type Options struct {
	Debug bool
	Trace bool
	Info  bool
	Quiet bool
}

func initLogger(opts Options) {
	// .env is optional for a CLI
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "prod"
	}

	logLevel := LevelForEnvironment(environment)

	switch {
	case opts.Debug:
		logLevel = zerolog.DebugLevel
	case opts.Trace:
		logLevel = zerolog.TraceLevel
	case opts.Info:
		logLevel = zerolog.InfoLevel
	case opts.Quiet:
		logLevel = zerolog.WarnLevel
	}

	// Apply the log level globally
	zerolog.SetGlobalLevel(logLevel)

	zapCfg := zap.NewProductionConfig()
	if logLevel <= zerolog.DebugLevel {
		zapCfg = zap.NewDevelopmentConfig()
	} else if logLevel >= zerolog.WarnLevel {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	zapCfg.OutputPaths = []string{"stderr"}
	if l, err := zapCfg.Build(); err == nil {
		Logger = l
	} else {
		log.Warn().Err(err).Msg("failed to build zap logger, falling back to no-op")
	}

	log.Debug().Str("environment", environment).Str("level", logLevel.String()).Msg("Logger initialized")
}

// LevelForEnvironment maps dev/test to trace and everything else to info.
func LevelForEnvironment(environment string) zerolog.Level {
	switch strings.ToLower(environment) {
	case "dev", "test":
		return zerolog.TraceLevel
	case "prod":
		return zerolog.InfoLevel
	default:
		log.Warn().Str("environment", environment).Msg("Unknown environment - defaulting to production log level (info and above)")
		return zerolog.InfoLevel
	}
}

// Init initializes the logger with the configuration from the environment
// and the given overrides.
// It sets up the global logger to use zerolog with console output.
// Example usage:
//
//	logger.Init(logger.Options{Debug: debugFlag})
func Init(opts Options) {
	initLogger(opts)
}

// Sugar returns a sugared logger for easier use. It is a no-op until Init.
func Sugar() *zap.SugaredLogger {
	if Logger == nil {
		return zap.NewNop().Sugar()
	}
	return Logger.Sugar()
}
