package report

import (
	"context"
	"log/slog"
)

/*
LogReporter writes every failure straight to a structured logger.

So the flow is: action fails → log line (synchronous)
*/
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a LogReporter. A nil logger means slog.Default().
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger.With("component", "job-cache")}
}

func (r *LogReporter) Report(ctx context.Context, key string, err error) {
	r.logger.ErrorContext(ctx, "job failed", "key", key, "err", err)
}

// Close has nothing to flush.
func (r *LogReporter) Close() {}
