// Package logger wraps the zap logger shared by the client and the
// development backend.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the process-wide zap logger.
// Log is a no-op logger until Init succeeds.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces Log with a JSON production logger writing to stderr at the
// given level ("debug", "Info", "WARN", ...).
func (l *Logger) Init(level string) error {
	return l.InitTo(level, "stderr")
}

// InitTo is Init with explicit zap output paths.
func (l *Logger) InitTo(level string, outputs ...string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.OutputPaths = outputs
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = zl
	return nil
}
