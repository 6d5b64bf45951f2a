package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config represents logger configuration
type Config struct {
	// Level is a zerolog level name; unknown names fall back to info
	Level string
	// Format is "json" or "pretty" ("text" is accepted as pretty)
	Format string
	// Output defaults to os.Stdout
	Output io.Writer
}

var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

// ParseLevel maps a configuration string onto a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Pretty reports whether format asks for console output
func Pretty(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "pretty", "text", "console":
		return true
	}
	return false
}

// Configure sets the global level and output and returns the process logger.
// The zerolog global logger is replaced too, so helpers logging through
// zerolog/log end up in the same stream.
func Configure(config Config) zerolog.Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.SetGlobalLevel(ParseLevel(config.Level))

	writer := config.Output
	if Pretty(config.Format) {
		writer = zerolog.ConsoleWriter{Out: config.Output, TimeFormat: time.Kitchen}
	}

	base = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = base
	return base
}

// Component returns a child logger tagged with the component name
func Component(name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

// Info logs an informational message
func Info() *zerolog.Event {
	return base.Info()
}

// Error logs an error message
func Error() *zerolog.Event {
	return base.Error()
}
