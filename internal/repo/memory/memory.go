package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo"
)

var _ repo.Store = (*Store)(nil)

// Store is the in-memory implementation, used by tests and when the agent
// runs without a data file.
type Store struct {
	mu            sync.RWMutex
	monitors      map[domain.MonitorID]*domain.Monitor
	heartbeats    map[domain.MonitorID][]domain.Heartbeat
	certs         map[domain.MonitorID]*domain.CertificateSnapshot
	notifications bool
}

func New() *Store {
	return &Store{
		monitors:      make(map[domain.MonitorID]*domain.Monitor),
		heartbeats:    make(map[domain.MonitorID][]domain.Heartbeat),
		certs:         make(map[domain.MonitorID]*domain.CertificateSnapshot),
		notifications: true,
	}
}

// ---- MonitorStore ----

func (s *Store) Add(ctx context.Context, m *domain.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = domain.MonitorID(uuid.NewString())
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	cp := *m
	s.monitors[m.ID] = &cp
	return nil
}

func (s *Store) Update(ctx context.Context, m *domain.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.monitors[m.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *m
	s.monitors[m.ID] = &cp
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.MonitorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.monitors[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.monitors, id)
	delete(s.heartbeats, id)
	delete(s.certs, id)
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.MonitorID) (*domain.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.monitors[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Monitor, 0, len(s.monitors))
	for _, m := range s.monitors {
		out = append(out, *m)
	}
	return out, nil
}

// ---- HeartbeatStore ----

func (s *Store) Append(ctx context.Context, hb *domain.Heartbeat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartbeats[hb.MonitorID] = append(s.heartbeats[hb.MonitorID], *hb)
	return nil
}

func (s *Store) ListByMonitor(ctx context.Context, id domain.MonitorID, limit int) ([]domain.Heartbeat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hbs := s.heartbeats[id]
	out := make([]domain.Heartbeat, 0, limit)
	for i := len(hbs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, hbs[i])
	}
	return out, nil
}

// ---- CertificateStore ----

func (s *Store) UpsertCertificate(ctx context.Context, snap *domain.CertificateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	s.certs[snap.MonitorID] = &cp
	return nil
}

func (s *Store) GetCertificate(ctx context.Context, id domain.MonitorID) (*domain.CertificateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ---- SettingsStore ----

func (s *Store) NotificationsEnabled(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications, nil
}

func (s *Store) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = enabled
	return nil
}
