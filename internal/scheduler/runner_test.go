package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"uptimeping/internal/domain"
	"uptimeping/internal/probe"
	"uptimeping/internal/track"
)

// --- fakes ---

type fakeSource struct {
	mu  sync.Mutex
	eps []domain.Endpoint
}

func (f *fakeSource) List() []domain.Endpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Endpoint(nil), f.eps...)
}

type fakeSink struct {
	mu        sync.Mutex
	checks    []domain.CheckResult
	incidents []domain.Incident
}

func (f *fakeSink) AppendCheck(r domain.CheckResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append(f.checks, r)
	return nil
}

func (f *fakeSink) AppendIncident(inc domain.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incidents = append(f.incidents, inc)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	incs []domain.Incident
}

func (f *fakeNotifier) Notify(ctx context.Context, inc domain.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incs = append(f.incs, inc)
	return nil
}

type scriptedChecker struct {
	mu   sync.Mutex
	outs []probe.Outcome
	i    int
}

func (s *scriptedChecker) Check(_ context.Context, _ domain.Endpoint) probe.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outs[s.i]
	if s.i < len(s.outs)-1 {
		s.i++
	}
	return out
}

func newRunner(src EndpointSource, chk probe.Checker, sink Sink, nt *fakeNotifier) *Runner {
	return NewRunner(zap.NewNop(), src, chk, track.New(), sink, nt, time.Minute, 2)
}

// --- tests ---

func TestRunOnce_TwoUpCyclesNoIncident(t *testing.T) {
	src := &fakeSource{eps: []domain.Endpoint{{URL: "https://a.example.com"}}}
	chk := &scriptedChecker{outs: []probe.Outcome{{Status: domain.StatusUp, HTTPStatus: 200, LatencyMS: 5}}}
	sink := &fakeSink{}
	nt := &fakeNotifier{}
	r := newRunner(src, chk, sink, nt)

	if !r.RunOnce(context.Background()) {
		t.Fatal("first cycle should run")
	}
	if !r.RunOnce(context.Background()) {
		t.Fatal("second cycle should run")
	}

	if len(sink.checks) != 2 {
		t.Fatalf("want 2 check records, got %d", len(sink.checks))
	}
	for _, c := range sink.checks {
		if c.Status != domain.StatusUp {
			t.Fatalf("want up, got %+v", c)
		}
	}
	if len(sink.incidents) != 0 || len(nt.incs) != 0 {
		t.Fatalf("identical results must not raise incidents: %d/%d", len(sink.incidents), len(nt.incs))
	}
}

func TestRunOnce_UpThenDownRaisesOneIncident(t *testing.T) {
	src := &fakeSource{eps: []domain.Endpoint{{URL: "https://a.example.com"}}}
	chk := &scriptedChecker{outs: []probe.Outcome{
		{Status: domain.StatusUp, HTTPStatus: 200, LatencyMS: 5},
		{Status: domain.StatusDown, HTTPStatus: 503, LatencyMS: 7, Reason: "expected 200, got 503"},
	}}
	sink := &fakeSink{}
	nt := &fakeNotifier{}
	r := newRunner(src, chk, sink, nt)

	r.RunOnce(context.Background())
	r.RunOnce(context.Background())

	if len(sink.incidents) != 1 {
		t.Fatalf("want exactly one incident, got %d", len(sink.incidents))
	}
	inc := sink.incidents[0]
	if inc.PrevStatus != domain.StatusUp || inc.NewStatus != domain.StatusDown {
		t.Fatalf("wrong transition: %s -> %s", inc.PrevStatus, inc.NewStatus)
	}
	if inc.Reason != "expected 200, got 503" {
		t.Fatalf("reason lost: %q", inc.Reason)
	}
	if len(nt.incs) != 1 {
		t.Fatalf("want one notification, got %d", len(nt.incs))
	}
}

func TestRunOnce_RemovedEndpointProducesNothing(t *testing.T) {
	src := &fakeSource{eps: []domain.Endpoint{{URL: "https://a.example.com"}}}
	chk := &scriptedChecker{outs: []probe.Outcome{{Status: domain.StatusUp, HTTPStatus: 200}}}
	sink := &fakeSink{}
	r := newRunner(src, chk, sink, &fakeNotifier{})

	r.RunOnce(context.Background())

	src.mu.Lock()
	src.eps = nil
	src.mu.Unlock()

	r.RunOnce(context.Background())
	if len(sink.checks) != 1 {
		t.Fatalf("removed endpoint still checked: %d records", len(sink.checks))
	}
}

type blockingChecker struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (b *blockingChecker) Check(_ context.Context, _ domain.Endpoint) probe.Outcome {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return probe.Outcome{Status: domain.StatusUp, HTTPStatus: 200}
}

func TestRunOnce_OverlapGuard(t *testing.T) {
	src := &fakeSource{eps: []domain.Endpoint{{URL: "https://a.example.com"}}}
	chk := &blockingChecker{started: make(chan struct{}), release: make(chan struct{})}
	sink := &fakeSink{}
	r := newRunner(src, chk, sink, &fakeNotifier{})

	done := make(chan struct{})
	go func() {
		r.RunOnce(context.Background())
		close(done)
	}()
	<-chk.started

	if r.RunOnce(context.Background()) {
		t.Fatal("second RunOnce must be skipped while a cycle is in flight")
	}

	close(chk.release)
	<-done

	if !r.RunOnce(context.Background()) {
		t.Fatal("guard must clear after the cycle finishes")
	}
}

func TestRun_ImmediatePassThenStops(t *testing.T) {
	src := &fakeSource{eps: []domain.Endpoint{{URL: "https://a.example.com"}}}
	chk := &scriptedChecker{outs: []probe.Outcome{{Status: domain.StatusUp, HTTPStatus: 200}}}
	sink := &fakeSink{}
	r := NewRunner(zap.NewNop(), src, chk, track.New(), sink, &fakeNotifier{}, 2*time.Millisecond, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	sink.mu.Lock()
	n := len(sink.checks)
	sink.mu.Unlock()
	if n == 0 {
		t.Fatal("expected at least the immediate pass to append a check")
	}
}
