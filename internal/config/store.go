package config

import (
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"uptimeping/internal/domain"
)

var (
	ErrDuplicate  = errors.New("endpoint already exists")
	ErrInvalidURL = errors.New("invalid endpoint url")
	ErrNotFound   = errors.New("endpoint not found")
)

type fileConfig struct {
	Endpoints            []domain.Endpoint `json:"endpoints"`
	CheckIntervalSeconds int               `json:"check_interval_seconds"`
}

// Store is the endpoint list backed by a JSON config file. Every mutation is
// validated against the in-memory copy first and persisted before it takes
// effect, so a failed write leaves the running config unchanged.
//
// DefaultTimeoutMS and DefaultDegradedThresholdMS fill fields omitted on Add;
// set them from the env config before serving mutations. Zero values fall
// back to 10000/3000.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  fileConfig

	DefaultTimeoutMS           int
	DefaultDegradedThresholdMS int
}

// OpenStore loads the config file, writing a default one when missing.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.cfg = fileConfig{
			Endpoints: []domain.Endpoint{
				{URL: "https://httpbin.org/status/200", Name: "httpbin-test"},
			},
			CheckIntervalSeconds: 60,
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) List() []domain.Endpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Endpoint(nil), s.cfg.Endpoints...)
}

// Add validates, fills defaults, and persists a new endpoint.
func (s *Store) Add(ep domain.Endpoint) error {
	if !isValidHTTPURL(ep.URL) {
		return ErrInvalidURL
	}
	if ep.ExpectedStatus == 0 {
		ep.ExpectedStatus = 200
	}
	if ep.TimeoutMS == 0 {
		ep.TimeoutMS = s.DefaultTimeoutMS
	}
	if ep.TimeoutMS == 0 {
		ep.TimeoutMS = 10000
	}
	if ep.DegradedThresholdMS == 0 {
		ep.DegradedThresholdMS = s.DefaultDegradedThresholdMS
	}
	if ep.DegradedThresholdMS == 0 {
		ep.DegradedThresholdMS = 3000
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.cfg.Endpoints {
		if e.URL == ep.URL {
			return ErrDuplicate
		}
	}
	s.cfg.Endpoints = append(s.cfg.Endpoints, ep)
	if err := s.persist(); err != nil {
		s.cfg.Endpoints = s.cfg.Endpoints[:len(s.cfg.Endpoints)-1]
		return err
	}
	return nil
}

// Remove deletes an endpoint by URL and persists.
func (s *Store) Remove(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.cfg.Endpoints {
		if e.URL == url {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	removed := s.cfg.Endpoints[idx]
	s.cfg.Endpoints = append(s.cfg.Endpoints[:idx], s.cfg.Endpoints[idx+1:]...)
	if err := s.persist(); err != nil {
		// reinsert at the original position so the failed call is invisible
		s.cfg.Endpoints = append(s.cfg.Endpoints, domain.Endpoint{})
		copy(s.cfg.Endpoints[idx+1:], s.cfg.Endpoints[idx:])
		s.cfg.Endpoints[idx] = removed
		return err
	}
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cfg.Endpoints)
}

// persist writes the file; callers hold the write lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(data, '\n'), 0o644)
}

func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
