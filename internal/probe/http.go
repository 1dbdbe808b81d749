package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
)

const httpTimeout = 5 * time.Second

type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues a GET and treats any 2xx as up. Redirect chains are followed
// by the default client, so a 3xx only shows through when it dead-ends.
func (h *HTTPProber) Check(ctx context.Context, target string) Result {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Status: domain.StatusDown, Message: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return Result{Status: domain.StatusDown, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	status := domain.StatusDown
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		status = domain.StatusUp
	}
	return Result{
		Status:    status,
		Message:   resp.Status,
		LatencyMS: latency,
	}
}
