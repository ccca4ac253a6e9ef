package storage

import (
	"bufio"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"

	"uptimeping/internal/domain"
)

const (
	checksDir    = "checks"
	incidentsDir = "incidents"
)

// Store is an append-only JSONL log rooted at a data directory:
// <dir>/checks/<YYYY-MM-DD>.jsonl and <dir>/incidents/<YYYY-MM-DD>.jsonl,
// one JSON object per line, split per UTC day. No compaction, no rotation
// beyond the daily filename.
type Store struct {
	dir string
	mu  sync.RWMutex
}

func New(dir string) (*Store, error) {
	for _, sub := range []string{checksDir, incidentsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{dir: dir}, nil
}

func dayFile(t time.Time) string {
	return t.UTC().Format("2006-01-02") + ".jsonl"
}

// appendLine opens, writes and closes per call so every record is flushed to
// disk before the append returns.
func (s *Store) appendLine(sub string, day time.Time, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, sub, dayFile(day)), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, werr := f.Write(append(b, '\n'))
	return multierr.Append(werr, f.Close())
}

func (s *Store) AppendCheck(r domain.CheckResult) error {
	return s.appendLine(checksDir, r.CheckedAt, r)
}

func (s *Store) AppendIncident(inc domain.Incident) error {
	return s.appendLine(incidentsDir, inc.ChangedAt, inc)
}

// RecentChecks returns checks no older than the window, newest first,
// truncated to limit when limit > 0. It scans today's file backwards through
// as many day files as the window can span. Unparseable lines are skipped.
func (s *Store) RecentChecks(window time.Duration, limit int) ([]domain.CheckResult, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-window)

	days := int(window.Hours()/24) + 2
	if days < 2 {
		days = 2
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CheckResult
	for d := 0; d < days; d++ {
		path := filepath.Join(s.dir, checksDir, dayFile(now.AddDate(0, 0, -d)))
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Bytes()
			if len(line) == 0 {
				continue
			}
			var cr domain.CheckResult
			if err := json.Unmarshal(line, &cr); err != nil {
				continue
			}
			if !cr.CheckedAt.Before(cutoff) {
				out = append(out, cr)
			}
		}
		serr := sc.Err()
		if cerr := f.Close(); cerr != nil && serr == nil {
			serr = cerr
		}
		if serr != nil {
			return nil, serr
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Uptime computes the up fraction for one URL over the window.
func (s *Store) Uptime(url string, window time.Duration) (domain.UptimeSummary, error) {
	checks, err := s.RecentChecks(window, 0)
	if err != nil {
		return domain.UptimeSummary{}, err
	}

	sum := domain.UptimeSummary{URL: url}
	var up int
	var latencyTotal float64
	for i := range checks {
		if checks[i].URL != url {
			continue
		}
		if sum.LastCheck == nil {
			last := checks[i]
			sum.LastCheck = &last
		}
		sum.CheckCount++
		latencyTotal += checks[i].LatencyMS
		if checks[i].Status == domain.StatusUp {
			up++
		}
	}
	if sum.CheckCount == 0 {
		return sum, nil
	}
	pct := round2(float64(up) / float64(sum.CheckCount) * 100)
	sum.UptimePct = &pct
	sum.AvgLatencyMS = round2(latencyTotal / float64(sum.CheckCount))
	return sum, nil
}

// Summary groups the latest check per URL inside the window.
func (s *Store) Summary(window time.Duration) (domain.StatusSummary, error) {
	checks, err := s.RecentChecks(window, 0)
	if err != nil {
		return domain.StatusSummary{}, err
	}

	seen := make(map[string]bool)
	sum := domain.StatusSummary{Endpoints: []domain.EndpointStatus{}}
	for i := range checks {
		c := checks[i]
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		sum.Endpoints = append(sum.Endpoints, domain.EndpointStatus{
			URL:       c.URL,
			Status:    c.Status,
			LatencyMS: c.LatencyMS,
			LastCheck: c.CheckedAt,
		})
		switch c.Status {
		case domain.StatusUp:
			sum.Up++
		case domain.StatusDown:
			sum.Down++
		default:
			sum.Degraded++
		}
	}
	sum.Total = len(sum.Endpoints)
	sort.Slice(sum.Endpoints, func(i, j int) bool { return sum.Endpoints[i].URL < sum.Endpoints[j].URL })
	return sum, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
