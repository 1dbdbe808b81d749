package probe

import (
	"context"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

// Result is the unified outcome of a single probe.
//
// Cert is set only by the SSL prober, and only when a certificate was
// actually read off the wire.
type Result struct {
	Status    domain.Status
	LatencyMS int64
	Message   string
	Cert      *domain.CertificateSnapshot
}

// Prober runs one check against a monitor's target. Any network failure is
// mapped to StatusDown inside the prober; Check never returns an error.
type Prober interface {
	Check(ctx context.Context, target string) Result
}

// Set holds one prober per monitor type with the spec'd hard timeouts.
type Set struct {
	HTTP Prober
	ICMP Prober
	DNS  Prober
	SSL  Prober
}

func NewSet() *Set {
	return &Set{
		HTTP: NewHTTPProber(httpTimeout),
		ICMP: NewICMPProber(icmpTimeout),
		DNS:  NewDNSProber(dnsTimeout),
		SSL:  NewSSLProber(sslTimeout),
	}
}

// ForType returns the prober matching a monitor type, or nil for an
// unrecognized type.
func (s *Set) ForType(t domain.MonitorType) Prober {
	switch t {
	case domain.TypeHTTP:
		return s.HTTP
	case domain.TypeICMP:
		return s.ICMP
	case domain.TypeDNS:
		return s.DNS
	case domain.TypeSSL:
		return s.SSL
	}
	return nil
}
