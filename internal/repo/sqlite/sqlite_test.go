package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "uptimekit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_MonitorRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := &domain.Monitor{
		Type:       domain.TypeSSL,
		Target:     "example.com:8443",
		IntervalS:  300,
		Name:       "prod cert",
		WebhookURL: "https://hooks.example.com/x",
		GroupName:  "prod",
	}
	if err := s.Add(ctx, m); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != m.Type || got.Target != m.Target || got.IntervalS != m.IntervalS ||
		got.Name != m.Name || got.WebhookURL != m.WebhookURL || got.GroupName != m.GroupName {
		t.Fatalf("round-trip mismatch:\nwant=%+v\ngot =%+v", m, got)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	got.IntervalS = 60
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, m.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStore_HeartbeatAppendAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := &domain.Monitor{Type: domain.TypeHTTP, Target: "https://example.com", IntervalS: 60}
	if err := s.Add(ctx, m); err != nil {
		t.Fatalf("add: %v", err)
	}

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		status := domain.StatusUp
		if i%2 == 1 {
			status = domain.StatusDown
		}
		hb := &domain.Heartbeat{
			MonitorID: m.ID,
			Status:    status,
			LatencyMS: int64(100 + i),
			CheckedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.Append(ctx, hb); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	hbs, err := s.ListByMonitor(ctx, m.ID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(hbs) != 2 {
		t.Fatalf("want 2, got %d", len(hbs))
	}
	if hbs[0].LatencyMS != 103 || hbs[0].Status != domain.StatusDown {
		t.Fatalf("want newest first, got %+v", hbs[0])
	}
}

func TestStore_CertificateUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := &domain.Monitor{Type: domain.TypeSSL, Target: "example.com", IntervalS: 300}
	if err := s.Add(ctx, m); err != nil {
		t.Fatalf("add: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	snap := &domain.CertificateSnapshot{
		MonitorID:     m.ID,
		Issuer:        "CN=test CA",
		Subject:       "CN=example.com",
		ValidFrom:     now.Add(-24 * time.Hour),
		ValidTo:       now.Add(30 * 24 * time.Hour),
		DaysRemaining: 30,
		SerialNumber:  "1",
		Fingerprint:   "ab",
		IsValid:       true,
	}
	if err := s.UpsertCertificate(ctx, snap); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	snap.DaysRemaining = 29
	if err := s.UpsertCertificate(ctx, snap); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := s.GetCertificate(ctx, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DaysRemaining != 29 || !got.IsValid || got.Issuer != "CN=test CA" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if !got.ValidTo.Equal(snap.ValidTo) {
		t.Fatalf("valid_to mismatch: want %v got %v", snap.ValidTo, got.ValidTo)
	}
}

func TestStore_SettingsToggle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	on, err := s.NotificationsEnabled(ctx)
	if err != nil || !on {
		t.Fatalf("want default enabled, got %v err=%v", on, err)
	}
	if err := s.SetNotificationsEnabled(ctx, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if on, _ = s.NotificationsEnabled(ctx); on {
		t.Fatal("want disabled")
	}
	if err := s.SetNotificationsEnabled(ctx, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if on, _ = s.NotificationsEnabled(ctx); !on {
		t.Fatal("want re-enabled")
	}
}
