// Package logging constructs the application logger.
// Everything that logs receives a *zap.Logger from its constructor;
// nothing reaches for a package-level logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger. Development mode uses the human-readable console
// encoder; production mode emits JSON to stderr.
func New(development bool, level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		var err error
		lvl, err = zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// NewNop returns a logger that discards everything. Used in tests and as
// the default when a component is constructed without a logger.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
