package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log writes every event to the agent log. Always installed, so events are
// traceable even with no webhook or desktop delivery configured.
type Log struct {
	Logger *zap.Logger
}

func NewLog(l *zap.Logger) *Log { return &Log{Logger: l} }

func (n *Log) Dispatch(ctx context.Context, ev Event) error {
	n.Logger.Info("notification",
		zap.String("event", string(ev.Kind)),
		zap.String("monitor_id", string(ev.Monitor.ID)),
		zap.String("name", ev.Monitor.DisplayName()),
		zap.String("status", ev.Status.String()),
		zap.Int("days_remaining", ev.DaysRemaining),
	)
	return nil
}
