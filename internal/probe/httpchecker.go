package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"uptimeping/internal/domain"
)

const (
	DefaultExpectedStatus    = 200
	DefaultTimeout           = 10 * time.Second
	DefaultDegradedThreshold = 3 * time.Second
)

// HTTPChecker probes endpoints over HTTP. Timeout and DegradedThreshold are
// the service-wide defaults for endpoints that don't set their own; when left
// zero the package constants apply.
type HTTPChecker struct {
	Client            *http.Client
	Timeout           time.Duration
	DegradedThreshold time.Duration
}

func NewHTTPChecker() *HTTPChecker {
	// Per-endpoint timeouts come from the request context, not the client.
	return &HTTPChecker{Client: &http.Client{}}
}

// Check probes one endpoint and classifies the outcome:
// expected code and fast -> up; expected code but slow -> degraded;
// unexpected non-5xx code -> degraded; 5xx, transport error or timeout -> down.
func (h *HTTPChecker) Check(ctx context.Context, ep domain.Endpoint) Outcome {
	expected := ep.ExpectedStatus
	if expected == 0 {
		expected = DefaultExpectedStatus
	}
	timeout := ep.Timeout()
	if timeout <= 0 {
		timeout = h.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	threshold := ep.DegradedThreshold()
	if threshold <= 0 {
		threshold = h.DegradedThreshold
	}
	if threshold <= 0 {
		threshold = DefaultDegradedThreshold
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return Outcome{Status: domain.StatusDown, Reason: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start)
	latencyMS := latency.Seconds() * 1000
	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) || cctx.Err() != nil {
			reason = "timeout"
		}
		return Outcome{Status: domain.StatusDown, LatencyMS: latencyMS, Reason: reason}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == expected && latency <= threshold:
		return Outcome{Status: domain.StatusUp, HTTPStatus: resp.StatusCode, LatencyMS: latencyMS}
	case resp.StatusCode == expected:
		return Outcome{
			Status:     domain.StatusDegraded,
			HTTPStatus: resp.StatusCode,
			LatencyMS:  latencyMS,
			Reason:     fmt.Sprintf("slow response: %.0fms over %dms threshold", latencyMS, threshold.Milliseconds()),
		}
	case resp.StatusCode < 500:
		return Outcome{
			Status:     domain.StatusDegraded,
			HTTPStatus: resp.StatusCode,
			LatencyMS:  latencyMS,
			Reason:     fmt.Sprintf("expected %d, got %d", expected, resp.StatusCode),
		}
	default:
		return Outcome{
			Status:     domain.StatusDown,
			HTTPStatus: resp.StatusCode,
			LatencyMS:  latencyMS,
			Reason:     fmt.Sprintf("expected %d, got %d", expected, resp.StatusCode),
		}
	}
}
