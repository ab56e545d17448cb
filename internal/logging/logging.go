// Package logging builds the zap loggers threaded through the rest of this
// module as constructor arguments, never as a package-level global.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the operator-facing logger: human-readable console output
// writing to stderr. verbose raises the level from Info to Debug.
func New(verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "" // timestamps belong to the error log, not interactive output
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// NewErrorLog builds the per-user, file-backed logger that records
// transient consumer errors. Lines are RFC 3339 UTC timestamped, one event
// per line, appended to path (see DefaultErrorLogPath).
func NewErrorLog(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log %s: %w", path, err)
	}

	cfg := zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		ConsoleSeparator: " ",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.UTC().Format(time.RFC3339))
		},
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(f), zap.InfoLevel)
	return zap.New(core), nil
}

// DefaultErrorLogPath returns $HOME/.rkl/logs/consumer.err.log.
func DefaultErrorLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".rkl", "logs", "consumer.err.log"), nil
}
