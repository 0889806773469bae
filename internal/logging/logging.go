// Package logging configures the diagnostic logger shared by commands and
// services. User-facing output does not go through it.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no --log-level flag is given.
const DefaultLevel = "warn"

// New returns a text logger writing to w at the given level. An invalid
// level falls back to DefaultLevel and is reported through the logger.
func New(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl, _ = logrus.ParseLevel(DefaultLevel)
		logger.SetLevel(lvl)
		logger.WithError(err).Warnf("Invalid log level, defaulting to %s", DefaultLevel)
		return logger
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything. Used as the default for
// services constructed without a logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
