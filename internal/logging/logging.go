// Package logging sets up zerolog so it works both in containers and locally:
// logs go to the file named by LOG_TO_FILE when set, stdout otherwise.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// EnvLogToFile names the environment variable holding the log file path
const EnvLogToFile = "LOG_TO_FILE"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the root logger. Diagnostics lowers the level to debug.
// The returned closer releases the log file, if one was opened.
func Setup(diagnostics bool) (zerolog.Logger, io.Closer, error) {
	return setup(os.Getenv(EnvLogToFile), os.Stdout, diagnostics)
}

func setup(logFile string, stdout io.Writer, diagnostics bool) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if diagnostics {
		level = zerolog.DebugLevel
	}

	var output io.Writer
	var closer io.Closer = nopCloser{}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), closer, errors.Wrapf(err, "opening %s=%s", EnvLogToFile, logFile)
		}
		output = file
		closer = file
	} else {
		output = zerolog.ConsoleWriter{
			Out:        stdout,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// Component returns a child logger tagged with the component name
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
