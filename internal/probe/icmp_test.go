package probe

import (
	"context"
	"testing"
	"time"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

func TestICMPProber_UnresolvableTargetIsDown(t *testing.T) {
	p := NewICMPProber(time.Second)
	out := p.Check(context.Background(), "does-not-exist.invalid")
	if out.Status != domain.StatusDown {
		t.Fatalf("want down, got %v", out.Status)
	}
	if out.Message == "" {
		t.Fatal("want non-empty error message")
	}
}

func TestSet_ForType(t *testing.T) {
	s := NewSet()
	if s.ForType(domain.TypeHTTP) != s.HTTP {
		t.Fatal("http prober mismatch")
	}
	if s.ForType(domain.TypeICMP) != s.ICMP {
		t.Fatal("icmp prober mismatch")
	}
	if s.ForType(domain.TypeDNS) != s.DNS {
		t.Fatal("dns prober mismatch")
	}
	if s.ForType(domain.TypeSSL) != s.SSL {
		t.Fatal("ssl prober mismatch")
	}
	if s.ForType(domain.MonitorType("tcp")) != nil {
		t.Fatal("unknown type must return nil")
	}
}
