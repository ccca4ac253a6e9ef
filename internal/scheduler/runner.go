package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"uptimeping/internal/domain"
	"uptimeping/internal/notify"
	"uptimeping/internal/probe"
)

type EndpointSource interface {
	List() []domain.Endpoint
}

type Sink interface {
	AppendCheck(domain.CheckResult) error
	AppendIncident(domain.Incident) error
}

type Tracker interface {
	Observe(domain.CheckResult) (*domain.Incident, bool)
}

// Runner drives the check pipeline (probe -> track -> persist -> notify) on
// a fixed interval and on demand via RunOnce.
type Runner struct {
	Logger      *zap.Logger
	Endpoints   EndpointSource
	Checker     probe.Checker
	Tracker     Tracker
	Sink        Sink
	Notifier    notify.Notifier
	Interval    time.Duration
	Concurrency int

	running int32
}

func NewRunner(
	logger *zap.Logger,
	src EndpointSource,
	checker probe.Checker,
	tracker Tracker,
	sink Sink,
	notifier notify.Notifier,
	interval time.Duration,
	concurrency int,
) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	return &Runner{
		Logger:      logger,
		Endpoints:   src,
		Checker:     checker,
		Tracker:     tracker,
		Sink:        sink,
		Notifier:    notifier,
		Interval:    interval,
		Concurrency: concurrency,
	}
}

// Run does an immediate pass, then one per tick until ctx is cancelled.
// A tick that fires while the previous cycle is still in flight is skipped
// rather than stacking cycles.
func (r *Runner) Run(ctx context.Context) {
	if r.Interval == 0 {
		r.Logger.Info("scheduler_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("scheduler_stopped")
			return
		case <-t.C:
			if !r.RunOnce(ctx) {
				r.Logger.Warn("scheduler_cycle_skipped_previous_running")
			}
		}
	}
}

// RunOnce runs one full cycle. It returns false without doing anything when
// another cycle is already running.
func (r *Runner) RunOnce(ctx context.Context) bool {
	if !atomic.CompareAndSwapInt32(&r.running, 0, 1) {
		return false
	}
	defer atomic.StoreInt32(&r.running, 0)
	r.runCycle(ctx)
	return true
}

func (r *Runner) runCycle(ctx context.Context) {
	eps := r.Endpoints.List()
	if len(eps) == 0 {
		return
	}

	var mu sync.Mutex
	counts := map[domain.Status]int{}

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for _, ep := range eps {
		ep := ep
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			st := r.checkOne(ctx, ep)

			mu.Lock()
			counts[st]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	r.Logger.Info("cycle_complete",
		zap.Int("endpoints", len(eps)),
		zap.Int("up", counts[domain.StatusUp]),
		zap.Int("degraded", counts[domain.StatusDegraded]),
		zap.Int("down", counts[domain.StatusDown]),
	)
}

func (r *Runner) checkOne(ctx context.Context, ep domain.Endpoint) domain.Status {
	out := r.Checker.Check(ctx, ep)

	cr := domain.CheckResult{
		URL:        ep.URL,
		Status:     out.Status,
		HTTPStatus: out.HTTPStatus,
		LatencyMS:  out.LatencyMS,
		Error:      out.Reason,
		CheckedAt:  time.Now().UTC(),
	}
	if err := r.Sink.AppendCheck(cr); err != nil {
		r.Logger.Warn("check_append_error",
			zap.String("url", ep.URL),
			zap.Error(err),
		)
	}

	inc, changed := r.Tracker.Observe(cr)
	if !changed {
		return cr.Status
	}

	r.Logger.Info("incident_detected",
		zap.String("url", inc.URL),
		zap.String("prev_status", string(inc.PrevStatus)),
		zap.String("new_status", string(inc.NewStatus)),
		zap.String("reason", inc.Reason),
	)
	if err := r.Sink.AppendIncident(*inc); err != nil {
		r.Logger.Warn("incident_append_error",
			zap.String("url", inc.URL),
			zap.Error(err),
		)
	}
	if r.Notifier != nil {
		if err := r.Notifier.Notify(ctx, *inc); err != nil {
			// best effort: alert loss must not break the loop
			r.Logger.Warn("notify_error",
				zap.String("url", inc.URL),
				zap.Error(err),
			)
		}
	}
	return cr.Status
}
