package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Init configures the global logger. Unknown levels fall back to info.
func Init(level, format string) {
	SetOutput(os.Stderr, level, format)
}

// SetOutput is Init with an explicit writer.
func SetOutput(w io.Writer, level, format string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	if strings.EqualFold(format, FormatJSON) {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component returns a child of the global logger tagged with a component field.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// FromContext extracts the logger from context.
// If no logger is attached, returns a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}
