package repo

import (
	"context"
	"errors"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Ports (interfaces) — the check engine and API depend on these, never on a
// concrete store.

type MonitorStore interface {
	Add(ctx context.Context, m *domain.Monitor) error
	Update(ctx context.Context, m *domain.Monitor) error
	Delete(ctx context.Context, id domain.MonitorID) error
	Get(ctx context.Context, id domain.MonitorID) (*domain.Monitor, error)
	List(ctx context.Context) ([]domain.Monitor, error)
}

type HeartbeatStore interface {
	Append(ctx context.Context, hb *domain.Heartbeat) error
	// ListByMonitor returns the most recent heartbeats first.
	ListByMonitor(ctx context.Context, id domain.MonitorID, limit int) ([]domain.Heartbeat, error)
}

type CertificateStore interface {
	// UpsertCertificate replaces the snapshot for the monitor; only the
	// latest one is kept.
	UpsertCertificate(ctx context.Context, snap *domain.CertificateSnapshot) error
	GetCertificate(ctx context.Context, id domain.MonitorID) (*domain.CertificateSnapshot, error)
}

type SettingsStore interface {
	NotificationsEnabled(ctx context.Context) (bool, error)
	SetNotificationsEnabled(ctx context.Context, enabled bool) error
}

// Store bundles everything a fully wired agent needs.
type Store interface {
	MonitorStore
	HeartbeatStore
	CertificateStore
	SettingsStore
}
