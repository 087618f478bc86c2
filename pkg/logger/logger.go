// Package logger holds the process-wide structured logger backed by zerolog.
// Initialise once at startup with Init, retrieve anywhere with Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is the minimum log level: debug, info, warn, error. Defaults to
	// info when empty or unrecognised.
	Level string
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	instance = zerolog.Nop()
	once     sync.Once
)

func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}

		instance = zerolog.New(out).
			Level(parseLevel(opts.Level)).
			With().
			Timestamp().
			Logger()
	})
	return instance
}

func Get() zerolog.Logger {
	return instance
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
