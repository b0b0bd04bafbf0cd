// Package logging builds the zerolog logger used by the command-line tools.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level and encoding.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// New creates a logger writing to stderr, leaving stdout for reports.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: w != os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
