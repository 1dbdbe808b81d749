package notify

import (
	"context"

	"go.uber.org/multierr"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

// Kind is the notification event type decided by the check engine.
type Kind string

const (
	KindMonitorUp   Kind = "monitor_up"
	KindMonitorDown Kind = "monitor_down"
	KindSSLValid    Kind = "ssl_valid"
	KindSSLExpired  Kind = "ssl_expired"
	KindSSLExpiring Kind = "ssl_expiring"
)

// Event carries everything a dispatcher needs to deliver a notification.
// DaysRemaining is meaningful only for KindSSLExpiring.
type Event struct {
	Kind          Kind
	Monitor       domain.Monitor
	Status        domain.Status
	DaysRemaining int
}

// Dispatcher delivers one event. The check engine decides when and with
// which kind to call it, never how delivery happens.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) error
}

// Multi fans an event out to every dispatcher and aggregates failures.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, ev Event) error {
	var errs error
	for _, d := range m {
		if d == nil {
			continue
		}
		errs = multierr.Append(errs, d.Dispatch(ctx, ev))
	}
	return errs
}
