package domain

import "time"

// UptimeSummary is computed on read from the check log; never stored.
// UptimePct is nil when no checks fall inside the window.
type UptimeSummary struct {
	URL          string       `json:"url"`
	UptimePct    *float64     `json:"uptime_pct"`
	CheckCount   int          `json:"check_count"`
	AvgLatencyMS float64      `json:"avg_response_ms,omitempty"`
	LastCheck    *CheckResult `json:"last_check,omitempty"`
}

// EndpointStatus is the latest known state of one URL.
type EndpointStatus struct {
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	LatencyMS float64   `json:"response_time_ms"`
	LastCheck time.Time `json:"last_check"`
}

// StatusSummary groups the latest check per URL with per-status counters.
type StatusSummary struct {
	Endpoints []EndpointStatus `json:"endpoints"`
	Total     int              `json:"total"`
	Up        int              `json:"up"`
	Down      int              `json:"down"`
	Degraded  int              `json:"degraded"`
}
