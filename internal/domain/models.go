package domain

import "time"

// Status is the health classification of an endpoint derived from one check.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Endpoint is a monitored URL. URL is the unique key.
type Endpoint struct {
	URL                 string `json:"url"`
	Name                string `json:"name,omitempty"`
	ExpectedStatus      int    `json:"expected_status,omitempty"`
	TimeoutMS           int    `json:"timeout_ms,omitempty"`
	DegradedThresholdMS int    `json:"degraded_threshold_ms,omitempty"`
}

func (e Endpoint) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.URL
}

func (e Endpoint) Timeout() time.Duration {
	return time.Duration(e.TimeoutMS) * time.Millisecond
}

func (e Endpoint) DegradedThreshold() time.Duration {
	return time.Duration(e.DegradedThresholdMS) * time.Millisecond
}

// CheckResult is the immutable outcome of a single probe.
// HTTPStatus is 0 for transport/DNS errors.
type CheckResult struct {
	URL        string    `json:"url"`
	Status     Status    `json:"status"`
	HTTPStatus int       `json:"http_status,omitempty"`
	LatencyMS  float64   `json:"latency_ms"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// Incident records a transition between two different statuses for one URL.
type Incident struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	PrevStatus   Status     `json:"prev_status"`
	NewStatus    Status     `json:"new_status"`
	Reason       string     `json:"reason,omitempty"`
	WasDownSince *time.Time `json:"was_down_since,omitempty"`
	ChangedAt    time.Time  `json:"changed_at"`
}
