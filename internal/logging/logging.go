// Package logging owns the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stderr)
)

// Get returns the shared logger.
func Get() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Configure replaces the shared logger's level and format. Unknown levels
// fall back to info and unknown formats to text.
func Configure(level, format string) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(ParseLevel(level))
	logger.SetFormatter(formatter(format))
}

// SetOutput redirects the shared logger, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// ParseLevel maps a level name to a logrus level.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func formatter(format string) logrus.Formatter {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

func newLogger(level, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(formatter(format))
	return l
}
