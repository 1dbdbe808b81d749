package probe

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"math"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

const sslTimeout = 10 * time.Second

type SSLProber struct {
	Timeout time.Duration
	now     func() time.Time
}

func NewSSLProber(timeout time.Duration) *SSLProber {
	return &SSLProber{Timeout: timeout, now: time.Now}
}

// Check opens a TLS connection and inspects the leaf certificate. Chain
// verification is disabled at the transport: the point is to observe the
// certificate's state, not to enforce trust, so an expired or self-signed
// certificate must still produce a snapshot.
func (p *SSLProber) Check(ctx context.Context, target string) Result {
	addr, serverName, err := ParseSSLTarget(target)
	if err != nil {
		return Result{Status: domain.StatusDown, Message: err.Error()}
	}

	cctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.Timeout},
		Config: &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         serverName,
		},
	}
	conn, err := dialer.DialContext(cctx, "tcp", addr)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return Result{Status: domain.StatusDown, Message: err.Error(), LatencyMS: latency}
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return Result{Status: domain.StatusDown, Message: "no peer certificate", LatencyMS: latency}
	}
	leaf := certs[0]

	now := p.now()
	days := int(math.Floor(leaf.NotAfter.Sub(now).Hours() / 24))
	valid := !now.Before(leaf.NotBefore) && !now.After(leaf.NotAfter) && days > 0

	sum := sha256.Sum256(leaf.Raw)
	snap := &domain.CertificateSnapshot{
		Issuer:        leaf.Issuer.String(),
		Subject:       leaf.Subject.String(),
		ValidFrom:     leaf.NotBefore,
		ValidTo:       leaf.NotAfter,
		DaysRemaining: days,
		SerialNumber:  leaf.SerialNumber.String(),
		Fingerprint:   hex.EncodeToString(sum[:]),
		IsValid:       valid,
	}

	status := domain.StatusDown
	msg := "certificate expired or not yet valid"
	if valid {
		status = domain.StatusUp
		msg = fmt.Sprintf("certificate valid, %d days remaining", days)
	}
	return Result{Status: status, Message: msg, LatencyMS: latency, Cert: snap}
}

// ParseSSLTarget accepts a bare hostname, host:port, or URL and returns the
// dial address (default port 443) plus the SNI server name.
func ParseSSLTarget(target string) (addr, serverName string, err error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return "", "", fmt.Errorf("empty ssl target")
	}

	if strings.Contains(t, "://") {
		u, uerr := url.Parse(t)
		if uerr != nil || u.Hostname() == "" {
			return "", "", fmt.Errorf("invalid ssl target %q", target)
		}
		port := u.Port()
		if port == "" {
			port = "443"
		}
		return net.JoinHostPort(u.Hostname(), port), u.Hostname(), nil
	}

	if host, port, serr := net.SplitHostPort(t); serr == nil {
		return net.JoinHostPort(host, port), host, nil
	}
	return net.JoinHostPort(t, "443"), t, nil
}
