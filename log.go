package pgwire

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the zerolog.Logger used throughout this package. level
// follows zerolog's own names ("debug", "info", "warn", "error", ...); an
// unrecognised name falls back to "info". A nil out defaults to stderr.
func NewLogger(out io.Writer, level string) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
