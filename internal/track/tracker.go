package track

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"uptimeping/internal/domain"
)

type state struct {
	status domain.Status
	since  time.Time
}

// Tracker holds the last-known status per URL and detects transitions.
// It is the single source of truth for "current status"; callers share one
// instance instead of package-level state.
type Tracker struct {
	mu     sync.Mutex
	states map[string]state
}

func New() *Tracker {
	return &Tracker{states: make(map[string]state)}
}

// Observe feeds one check result through the tracker. The first result for a
// URL only establishes the baseline. A result matching the last-known status
// is a no-op. A differing status returns exactly one Incident and advances
// the baseline.
func (t *Tracker) Observe(r domain.CheckResult) (*domain.Incident, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, seen := t.states[r.URL]
	if !seen {
		t.states[r.URL] = state{status: r.Status, since: r.CheckedAt}
		return nil, false
	}
	if prev.status == r.Status {
		return nil, false
	}

	inc := &domain.Incident{
		ID:         uuid.NewString(),
		URL:        r.URL,
		PrevStatus: prev.status,
		NewStatus:  r.Status,
		Reason:     r.Error,
		ChangedAt:  r.CheckedAt,
	}
	if prev.status == domain.StatusDown {
		since := prev.since
		inc.WasDownSince = &since
	}
	t.states[r.URL] = state{status: r.Status, since: r.CheckedAt}
	return inc, true
}

// Current returns the last-known status for a URL.
func (t *Tracker) Current(url string) (domain.Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.states[url]
	return s.status, ok
}

// Forget drops tracked state for a URL, so a re-added endpoint starts from a
// fresh baseline instead of raising a transition against stale history.
func (t *Tracker) Forget(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, url)
}
