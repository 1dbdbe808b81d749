package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo"
)

var _ repo.Store = (*Store)(nil)

// Store persists monitors, heartbeats, certificate snapshots, and settings
// in a local sqlite file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and runs migrations.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS monitors (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	target      TEXT NOT NULL,
	interval_s  INTEGER NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	webhook_url TEXT NOT NULL DEFAULT '',
	group_name  TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS heartbeats (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	monitor_id  TEXT NOT NULL,
	status      TEXT NOT NULL,
	latency_ms  INTEGER NOT NULL,
	checked_at  TEXT NOT NULL,
	FOREIGN KEY(monitor_id) REFERENCES monitors(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_heartbeats_monitor_checked ON heartbeats (monitor_id, checked_at DESC);

CREATE TABLE IF NOT EXISTS certificates (
	monitor_id     TEXT PRIMARY KEY,
	issuer         TEXT NOT NULL,
	subject        TEXT NOT NULL,
	valid_from     TEXT NOT NULL,
	valid_to       TEXT NOT NULL,
	days_remaining INTEGER NOT NULL,
	serial_number  TEXT NOT NULL,
	fingerprint    TEXT NOT NULL,
	is_valid       INTEGER NOT NULL,
	FOREIGN KEY(monitor_id) REFERENCES monitors(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ---- MonitorStore ----

func (s *Store) Add(ctx context.Context, m *domain.Monitor) error {
	if m.ID == "" {
		m.ID = domain.MonitorID(uuid.NewString())
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monitors (id, type, target, interval_s, name, webhook_url, group_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(m.ID), string(m.Type), m.Target, m.IntervalS, m.Name, m.WebhookURL, m.GroupName,
		m.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert monitor: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, m *domain.Monitor) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE monitors
		    SET type = ?, target = ?, interval_s = ?, name = ?, webhook_url = ?, group_name = ?
		  WHERE id = ?`,
		string(m.Type), m.Target, m.IntervalS, m.Name, m.WebhookURL, m.GroupName, string(m.ID),
	)
	if err != nil {
		return fmt.Errorf("update monitor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.MonitorID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM monitors WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete monitor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.MonitorID) (*domain.Monitor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, target, interval_s, name, webhook_url, group_name, created_at
		   FROM monitors WHERE id = ?`, string(id))
	return scanMonitor(row)
}

func (s *Store) List(ctx context.Context) ([]domain.Monitor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, target, interval_s, name, webhook_url, group_name, created_at
		   FROM monitors ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	defer rows.Close()

	var out []domain.Monitor
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonitor(r rowScanner) (*domain.Monitor, error) {
	var (
		m         domain.Monitor
		id, typ   string
		createdAt string
	)
	err := r.Scan(&id, &typ, &m.Target, &m.IntervalS, &m.Name, &m.WebhookURL, &m.GroupName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan monitor: %w", err)
	}
	m.ID = domain.MonitorID(id)
	m.Type = domain.MonitorType(typ)
	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &m, nil
}

// ---- HeartbeatStore ----

func (s *Store) Append(ctx context.Context, hb *domain.Heartbeat) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO heartbeats (monitor_id, status, latency_ms, checked_at)
		 VALUES (?, ?, ?, ?)`,
		string(hb.MonitorID), hb.Status.String(), hb.LatencyMS,
		hb.CheckedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert heartbeat: %w", err)
	}
	return nil
}

func (s *Store) ListByMonitor(ctx context.Context, id domain.MonitorID, limit int) ([]domain.Heartbeat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT monitor_id, status, latency_ms, checked_at
		   FROM heartbeats
		  WHERE monitor_id = ?
		  ORDER BY checked_at DESC, id DESC
		  LIMIT ?`, string(id), limit)
	if err != nil {
		return nil, fmt.Errorf("list heartbeats: %w", err)
	}
	defer rows.Close()

	var out []domain.Heartbeat
	for rows.Next() {
		var (
			hb        domain.Heartbeat
			mid       string
			status    string
			checkedAt string
		)
		if err := rows.Scan(&mid, &status, &hb.LatencyMS, &checkedAt); err != nil {
			return nil, fmt.Errorf("scan heartbeat: %w", err)
		}
		hb.MonitorID = domain.MonitorID(mid)
		hb.Status = domain.ParseStatus(status)
		hb.CheckedAt, _ = time.Parse(time.RFC3339Nano, checkedAt)
		out = append(out, hb)
	}
	return out, rows.Err()
}

// ---- CertificateStore ----

func (s *Store) UpsertCertificate(ctx context.Context, snap *domain.CertificateSnapshot) error {
	isValid := 0
	if snap.IsValid {
		isValid = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO certificates
		   (monitor_id, issuer, subject, valid_from, valid_to, days_remaining, serial_number, fingerprint, is_valid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(monitor_id) DO UPDATE SET
		   issuer = excluded.issuer,
		   subject = excluded.subject,
		   valid_from = excluded.valid_from,
		   valid_to = excluded.valid_to,
		   days_remaining = excluded.days_remaining,
		   serial_number = excluded.serial_number,
		   fingerprint = excluded.fingerprint,
		   is_valid = excluded.is_valid`,
		string(snap.MonitorID), snap.Issuer, snap.Subject,
		snap.ValidFrom.Format(time.RFC3339Nano), snap.ValidTo.Format(time.RFC3339Nano),
		snap.DaysRemaining, snap.SerialNumber, snap.Fingerprint, isValid,
	)
	if err != nil {
		return fmt.Errorf("upsert certificate: %w", err)
	}
	return nil
}

func (s *Store) GetCertificate(ctx context.Context, id domain.MonitorID) (*domain.CertificateSnapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT monitor_id, issuer, subject, valid_from, valid_to, days_remaining, serial_number, fingerprint, is_valid
		   FROM certificates WHERE monitor_id = ?`, string(id))

	var (
		snap               domain.CertificateSnapshot
		mid                string
		validFrom, validTo string
		isValid            int
	)
	err := row.Scan(&mid, &snap.Issuer, &snap.Subject, &validFrom, &validTo,
		&snap.DaysRemaining, &snap.SerialNumber, &snap.Fingerprint, &isValid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan certificate: %w", err)
	}
	snap.MonitorID = domain.MonitorID(mid)
	snap.ValidFrom, _ = time.Parse(time.RFC3339Nano, validFrom)
	snap.ValidTo, _ = time.Parse(time.RFC3339Nano, validTo)
	snap.IsValid = isValid != 0
	return &snap, nil
}

// ---- SettingsStore ----

func (s *Store) NotificationsEnabled(ctx context.Context) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = 'notifications_enabled'`)
	var v string
	err := row.Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil // enabled until explicitly turned off
	}
	if err != nil {
		return false, fmt.Errorf("read setting: %w", err)
	}
	return v == "true", nil
}

func (s *Store) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('notifications_enabled', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, v)
	if err != nil {
		return fmt.Errorf("write setting: %w", err)
	}
	return nil
}
