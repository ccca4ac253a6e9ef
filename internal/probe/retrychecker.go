package probe

import (
	"context"
	"time"

	"uptimeping/internal/domain"
)

// RetryChecker re-probes an endpoint that came back down, to filter out
// one-off network blips before a transition is recorded.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
}

func (r *RetryChecker) Check(ctx context.Context, ep domain.Endpoint) Outcome {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last Outcome
	for i := 0; i < attempts; i++ {
		last = r.Inner.Check(ctx, ep)
		if last.Status != domain.StatusDown {
			return last
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return last
			case <-time.After(r.Backoff):
			}
		}
	}
	return last
}
