package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
	"github.com/vietcalls99/UptimeKit-CLI/internal/notify"
	"github.com/vietcalls99/UptimeKit-CLI/internal/probe"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo"
)

// Day thresholds for certificate expiry warnings, scanned high to low.
var sslThresholds = [...]int{30, 14, 7, 3, 1}

// State is the engine's memory of one monitor between checks. Owned by the
// Scheduler; Checker reads a snapshot and returns the replacement.
type State struct {
	LastStatus domain.Status
	// LastNotifiedThreshold is the highest expiry threshold already
	// notified for this loop (0 = none yet). Because thresholds are scanned
	// high to low against this single watermark, lower thresholds stop
	// firing once a higher one has; the watermark only resets when the
	// monitor's loop is rebuilt.
	LastNotifiedThreshold int
}

// Checker runs one check for one monitor: probe, persist, detect
// transitions, dispatch notifications.
type Checker struct {
	Logger     *zap.Logger
	Probes     *probe.Set
	Heartbeats repo.HeartbeatStore
	Certs      repo.CertificateStore
	Settings   repo.SettingsStore
	Notifier   notify.Dispatcher
}

func NewChecker(
	logger *zap.Logger,
	probes *probe.Set,
	heartbeats repo.HeartbeatStore,
	certs repo.CertificateStore,
	settings repo.SettingsStore,
	notifier notify.Dispatcher,
) *Checker {
	return &Checker{
		Logger:     logger,
		Probes:     probes,
		Heartbeats: heartbeats,
		Certs:      certs,
		Settings:   settings,
		Notifier:   notifier,
	}
}

// Check never fails: probe errors become StatusDown, persistence errors are
// logged and swallowed so a storage hiccup cannot stop the loop.
func (c *Checker) Check(ctx context.Context, m domain.Monitor, prior State) State {
	p := c.Probes.ForType(m.Type)
	if p == nil {
		c.Logger.Error("unknown_monitor_type",
			zap.String("monitor_id", string(m.ID)),
			zap.String("type", string(m.Type)),
		)
		return prior
	}

	res := p.Check(ctx, m.Target)

	hb := &domain.Heartbeat{
		MonitorID: m.ID,
		Status:    res.Status,
		LatencyMS: res.LatencyMS,
		CheckedAt: time.Now().UTC(),
	}
	if err := c.Heartbeats.Append(ctx, hb); err != nil {
		c.Logger.Warn("heartbeat_append_error",
			zap.String("monitor_id", string(m.ID)),
			zap.Error(err),
		)
	}

	if res.Cert != nil {
		res.Cert.MonitorID = m.ID
		if err := c.Certs.UpsertCertificate(ctx, res.Cert); err != nil {
			c.Logger.Warn("certificate_upsert_error",
				zap.String("monitor_id", string(m.ID)),
				zap.Error(err),
			)
		}
	}

	enabled, err := c.Settings.NotificationsEnabled(ctx)
	if err != nil {
		c.Logger.Warn("settings_read_error", zap.Error(err))
		enabled = false
	}

	next := prior
	next.LastStatus = res.Status

	// No transition on the very first check: prior Unknown means there is
	// nothing to compare against, and startup noise is worse than silence.
	if enabled && prior.LastStatus != domain.StatusUnknown && prior.LastStatus != res.Status {
		c.dispatch(ctx, notify.Event{
			Kind:    transitionKind(m.Type, res.Status),
			Monitor: m,
			Status:  res.Status,
		})
	}

	if enabled && m.Type == domain.TypeSSL && res.Cert != nil && res.Cert.IsValid {
		for _, t := range sslThresholds {
			if res.Cert.DaysRemaining <= t && prior.LastNotifiedThreshold < t {
				c.dispatch(ctx, notify.Event{
					Kind:          notify.KindSSLExpiring,
					Monitor:       m,
					Status:        res.Status,
					DaysRemaining: res.Cert.DaysRemaining,
				})
				next.LastNotifiedThreshold = t
				break // at most one escalation per check
			}
		}
	}

	c.Logger.Debug("check_done",
		zap.String("monitor_id", string(m.ID)),
		zap.String("type", string(m.Type)),
		zap.String("status", res.Status.String()),
		zap.Int64("latency_ms", res.LatencyMS),
		zap.String("reason", res.Message),
	)
	return next
}

func (c *Checker) dispatch(ctx context.Context, ev notify.Event) {
	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.Dispatch(ctx, ev); err != nil {
		c.Logger.Warn("notify_error",
			zap.String("event", string(ev.Kind)),
			zap.String("monitor_id", string(ev.Monitor.ID)),
			zap.Error(err),
		)
	}
}

func transitionKind(t domain.MonitorType, s domain.Status) notify.Kind {
	if t == domain.TypeSSL {
		if s == domain.StatusUp {
			return notify.KindSSLValid
		}
		return notify.KindSSLExpired
	}
	if s == domain.StatusUp {
		return notify.KindMonitorUp
	}
	return notify.KindMonitorDown
}
