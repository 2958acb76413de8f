package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/cadence/internal/platform/logger"
)

// LogHandler writes every review event as a structured log line. It gives
// operators a review log without any storage.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler. Request-scoped loggers found in the
// event context take precedence over base.
func NewLogHandler(base *slog.Logger) *LogHandler {
	return &LogHandler{logger: base.With("component", "review_log")}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *ReviewEvent) error {
	log := h.logger
	if scoped, ok := logger.FromContext(ctx); ok {
		log = scoped.With("component", "review_log")
	}

	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Time("at", event.At),
	}
	if event.Grade != "" {
		attrs = append(attrs, slog.String("grade", string(event.Grade)))
	}
	if event.LatencyMs != nil {
		attrs = append(attrs, slog.Int64("latency_ms", *event.LatencyMs))
	}
	if p := event.Progress; p != nil {
		attrs = append(attrs,
			slog.Time("due_at", p.DueAt),
			slog.Int("review_count", p.ReviewCount),
			slog.Float64("interval_days", p.IntervalDays),
			slog.Float64("ease", p.Ease),
			slog.Int("penalty_level", p.PenaltyLevel))
	}

	log.LogAttrs(ctx, slog.LevelInfo, "review event", attrs...)
	return nil
}
