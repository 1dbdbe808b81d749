package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr              string        // API bind address, e.g. "127.0.0.1:3400"
	LogDir            string        // logs directory
	DatabasePath      string        // sqlite file; empty means in-memory store
	WebhookURL        string        // global webhook; monitors may override
	DesktopNotify     bool          // show OS toast notifications
	ReconcileInterval time.Duration // scheduler reconciliation cadence
}

func FromEnv() Config {
	addr := os.Getenv("UPTIMEKIT_ADDR")
	if addr == "" {
		addr = "127.0.0.1:3400"
	}

	logDir := os.Getenv("UPTIMEKIT_LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	// Empty means run everything in memory (no persistence across restarts).
	dbPath := os.Getenv("UPTIMEKIT_DB")

	desktop := true
	if v := os.Getenv("UPTIMEKIT_DESKTOP_NOTIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			desktop = b
		}
	}

	reconcile := 10 * time.Second
	if v := os.Getenv("UPTIMEKIT_RECONCILE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			reconcile = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		Addr:              addr,
		LogDir:            logDir,
		DatabasePath:      dbPath,
		WebhookURL:        os.Getenv("UPTIMEKIT_WEBHOOK_URL"),
		DesktopNotify:     desktop,
		ReconcileInterval: reconcile,
	}
}
