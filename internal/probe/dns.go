package probe

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

const dnsTimeout = 3 * time.Second

type DNSProber struct {
	Resolver *net.Resolver // OS resolver
	Timeout  time.Duration
}

func NewDNSProber(timeout time.Duration) *DNSProber {
	return &DNSProber{Resolver: &net.Resolver{}, Timeout: timeout}
}

// Check resolves the target name. Up iff at least one A/AAAA record comes
// back; latency is the wall-clock time of the lookup.
func (d *DNSProber) Check(ctx context.Context, target string) Result {
	host := extractHost(target)

	cctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	start := time.Now()
	ips, err := d.Resolver.LookupIP(cctx, "ip", host)
	latency := time.Since(start).Milliseconds()

	if err != nil || len(ips) == 0 {
		msg := "no records"
		if err != nil {
			msg = err.Error()
		}
		return Result{Status: domain.StatusDown, Message: msg, LatencyMS: latency}
	}
	return Result{Status: domain.StatusUp, Message: "resolves", LatencyMS: latency}
}

// extractHost pulls the hostname out of a URL-ish target; bare hostnames
// pass through unchanged.
func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
