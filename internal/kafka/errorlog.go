package kafka

import (
	"fmt"

	"go.uber.org/zap"
)

// ErrorLog appends transient per-partition consumer errors to a per-user
// log file, one RFC 3339 UTC timestamped line per event, grounded on
// original_source/src/consumer.rs's error-log branch.
type ErrorLog struct {
	logger *zap.Logger
}

// NewErrorLog wraps a file-backed zap logger (see internal/logging) for use
// by partition consumers.
func NewErrorLog(logger *zap.Logger) *ErrorLog {
	return &ErrorLog{logger: logger}
}

// Record writes "[partition <n>] <message>" to the log, prefixed by the
// logger's own RFC 3339 UTC timestamp.
func (l *ErrorLog) Record(partition int32, format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.logger.Info(fmt.Sprintf("[partition %d] %s", partition, msg))
}
