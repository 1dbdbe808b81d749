package domain

import (
	"encoding/json"
	"time"
)

type MonitorID string

// MonitorType selects which probe executor runs for a monitor.
type MonitorType string

const (
	TypeHTTP MonitorType = "http"
	TypeICMP MonitorType = "icmp"
	TypeDNS  MonitorType = "dns"
	TypeSSL  MonitorType = "ssl"
)

func (t MonitorType) Valid() bool {
	switch t {
	case TypeHTTP, TypeICMP, TypeDNS, TypeSSL:
		return true
	}
	return false
}

// Status is the observed state of a monitor. StatusUnknown means no check
// has completed yet; it is never written to a heartbeat.
type Status int

const (
	StatusUnknown Status = iota
	StatusUp
	StatusDown
)

func (s Status) String() string {
	switch s {
	case StatusUp:
		return "up"
	case StatusDown:
		return "down"
	default:
		return "unknown"
	}
}

// Status marshals as "up"/"down"/"unknown" so API payloads and webhook
// bodies stay readable.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = ParseStatus(v)
	return nil
}

func ParseStatus(v string) Status {
	switch v {
	case "up":
		return StatusUp
	case "down":
		return StatusDown
	default:
		return StatusUnknown
	}
}

// Monitor is a user-configured target. The check engine only reads
// snapshots; create/edit/delete happen through the API and store.
type Monitor struct {
	ID         MonitorID   `json:"id"`
	Type       MonitorType `json:"type"`
	Target     string      `json:"target"` // URL or hostname, depending on Type
	IntervalS  int         `json:"interval"`
	Name       string      `json:"name,omitempty"`
	WebhookURL string      `json:"webhookUrl,omitempty"`
	GroupName  string      `json:"groupName,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Interval returns the polling period, clamped to the 1s minimum.
func (m *Monitor) Interval() time.Duration {
	if m.IntervalS < 1 {
		return time.Second
	}
	return time.Duration(m.IntervalS) * time.Second
}

// DisplayName falls back to the target when no name was given.
func (m *Monitor) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Target
}

// Heartbeat is one timestamped check result. Append-only.
type Heartbeat struct {
	MonitorID MonitorID `json:"monitor_id"`
	Status    Status    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
}

// CertificateSnapshot is the observed state of an SSL monitor's leaf
// certificate. Recomputed on every check; only the latest one is retained.
type CertificateSnapshot struct {
	MonitorID     MonitorID `json:"monitor_id"`
	Issuer        string    `json:"issuer"`
	Subject       string    `json:"subject"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidTo       time.Time `json:"valid_to"`
	DaysRemaining int       `json:"days_remaining"` // negative once expired
	SerialNumber  string    `json:"serial_number"`
	Fingerprint   string    `json:"fingerprint"`
	IsValid       bool      `json:"is_valid"`
}
