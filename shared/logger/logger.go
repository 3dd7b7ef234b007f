package logger

import (
	"io"
	"os"
	"rentals/config"
	"rentals/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel applies when the configured level is missing or unparseable.
const DefaultLevel = zerolog.InfoLevel

// InitLogger sets up a console logger for the boot phase, before config is read.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// Configure switches to structured JSON output in production and tags every entry with the app name.
func Configure(cfg *config.Config) {
	log.Logger = zerolog.New(Writer(cfg.Server.Env, os.Stdout)).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Logger()

	zerolog.SetGlobalLevel(Level(cfg.Server.LogLevel))
}

// Writer returns the log sink for the given server environment.
func Writer(env string, out io.Writer) io.Writer {
	if env == constant.ServerEnvProduction {
		return out
	}

	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

// Level parses a configured level name.
func Level(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return DefaultLevel
	}

	return level
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
