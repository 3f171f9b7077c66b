// Package logging provides pre-configured per-component loggers.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers      = make(map[string]*logrus.Entry)
	defaultLevel logrus.Level
	levelSet     bool
	loggersMu    sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific
// component. It uses a singleton pattern per component to avoid
// re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	logger.SetLevel(currentLevelLocked())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetLevel makes levelStr the level of every registered component logger
// and the default for loggers created afterwards. Invalid levels are
// ignored.
func SetLevel(levelStr string) {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	defaultLevel = level
	levelSet = true
	for _, entry := range loggers {
		entry.Logger.SetLevel(level)
	}
}

// currentLevelLocked resolves the level for a new logger: an explicit
// SetLevel wins, then the POMOMO_LOG_LEVEL env var, then info. Callers
// hold loggersMu.
func currentLevelLocked() logrus.Level {
	if levelSet {
		return defaultLevel
	}
	if env := os.Getenv("POMOMO_LOG_LEVEL"); env != "" {
		if level, err := logrus.ParseLevel(env); err == nil {
			return level
		}
	}
	return logrus.InfoLevel
}
