// Package health probes upstream services and aggregates their status into
// the gateway's own composite health.
package health

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Status values reported for a single upstream and for the composite.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// Target identifies one proxied upstream. Immutable after startup.
type Target struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseURL"`
}

// Report is the outcome of a single probe. Failure is carried in Status and
// Error; Probe never returns a Go error.
type Report struct {
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	LastChecked time.Time `json:"lastChecked"`
	Error       string    `json:"error,omitempty"`
}

// Prober issues bounded-timeout health requests to upstreams.
type Prober struct {
	client *http.Client
}

// NewProber returns a prober whose requests are capped at timeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{client: &http.Client{Timeout: timeout}}
}

// Probe issues one GET {baseURL}/health. Timeout, connection failure, and
// non-2xx responses all yield an unhealthy report.
func (p *Prober) Probe(ctx context.Context, t Target) Report {
	rep := Report{Name: t.Name, LastChecked: time.Now().UTC()}

	url := strings.TrimRight(t.BaseURL, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		rep.Status = StatusUnhealthy
		rep.Error = err.Error()
		return rep
	}
	resp, err := p.client.Do(req)
	if err != nil {
		rep.Status = StatusUnhealthy
		rep.Error = err.Error()
		return rep
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		rep.Status = StatusUnhealthy
		rep.Error = "unexpected status " + resp.Status
		return rep
	}
	rep.Status = StatusHealthy
	return rep
}
