package probe

import (
	"context"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

const icmpTimeout = 5 * time.Second

type ICMPProber struct {
	Timeout time.Duration
	// Privileged selects raw-socket ICMP; off by default so the agent works
	// without CAP_NET_RAW (pro-bing falls back to UDP ping).
	Privileged bool
}

func NewICMPProber(timeout time.Duration) *ICMPProber {
	return &ICMPProber{Timeout: timeout}
}

// Check sends a single echo request. Up iff a reply came back; latency is
// the reported round-trip time, 0 when unavailable.
func (p *ICMPProber) Check(ctx context.Context, target string) Result {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		return Result{Status: domain.StatusDown, Message: err.Error()}
	}
	pinger.Count = 1
	pinger.Timeout = p.Timeout
	pinger.SetPrivileged(p.Privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return Result{Status: domain.StatusDown, Message: err.Error()}
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv < 1 {
		return Result{Status: domain.StatusDown, Message: "no echo reply"}
	}
	return Result{
		Status:    domain.StatusUp,
		LatencyMS: stats.AvgRtt.Milliseconds(),
		Message:   "echo reply",
	}
}
