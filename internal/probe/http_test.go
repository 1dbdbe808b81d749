package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

func TestHTTPProber_StatusRanges(t *testing.T) {
	cases := []struct {
		code int
		want domain.Status
	}{
		{200, domain.StatusUp},
		{204, domain.StatusUp},
		{299, domain.StatusUp},
		{301, domain.StatusDown},
		{404, domain.StatusDown},
		{500, domain.StatusDown},
		{503, domain.StatusDown},
	}
	for _, tc := range cases {
		code := tc.code
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		p := NewHTTPProber(2 * time.Second)
		out := p.Check(context.Background(), s.URL)
		s.Close()

		if out.Status != tc.want {
			t.Fatalf("code %d: want %v, got %v (%s)", tc.code, tc.want, out.Status, out.Message)
		}
		if out.LatencyMS < 0 {
			t.Fatalf("code %d: negative latency %d", tc.code, out.LatencyMS)
		}
	}
}

func TestHTTPProber_TransportErrorIsDown(t *testing.T) {
	p := NewHTTPProber(500 * time.Millisecond)
	// Nothing listens here.
	out := p.Check(context.Background(), "http://127.0.0.1:1")
	if out.Status != domain.StatusDown {
		t.Fatalf("want down on refused connection, got %v", out.Status)
	}
	if out.Message == "" {
		t.Fatal("want non-empty error message")
	}
}

func TestHTTPProber_Timeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	p := NewHTTPProber(50 * time.Millisecond)
	out := p.Check(context.Background(), s.URL)
	if out.Status != domain.StatusDown {
		t.Fatalf("want down on timeout, got %v", out.Status)
	}
}

func TestHTTPProber_BadURL(t *testing.T) {
	p := NewHTTPProber(time.Second)
	out := p.Check(context.Background(), "http://bad url with spaces")
	if out.Status != domain.StatusDown {
		t.Fatalf("want down on unparsable target, got %v", out.Status)
	}
}
