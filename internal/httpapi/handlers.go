package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"uptimeping/internal/config"
	"uptimeping/internal/domain"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":                   "uptimeping",
		"endpoints_monitored":    s.Endpoints.Len(),
		"check_interval_seconds": int(s.Interval.Seconds()),
		"api": map[string]string{
			"/status":           "current status of all endpoints",
			"/uptime/{url}":     "uptime stats for one endpoint",
			"/checks":           "recent check history",
			"/config":           "current configuration",
			"/config/endpoints": "add (POST) or remove (DELETE) an endpoint",
			"/check":            "trigger immediate check cycle (POST)",
		},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sum, err := s.Store.Summary(time.Hour)
	if err != nil {
		s.Logger.Warn("status_read_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not read check log")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleUptime(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	if q := r.URL.Query().Get("url"); q != "" {
		raw = q
	}
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}
	// path normalization folds "//" so "https://x" arrives as "https:/x"
	if i := strings.Index(raw, ":/"); i > 0 && !strings.Contains(raw, "://") {
		raw = raw[:i] + "://" + raw[i+2:]
	}
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}

	window := hoursWindow(r, 24)
	sum, err := s.Store.Uptime(raw, window)
	if err != nil {
		s.Logger.Warn("uptime_read_error", zap.String("url", raw), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not read check log")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleChecks(w http.ResponseWriter, r *http.Request) {
	window := hoursWindow(r, 24)
	limit := intQuery(r, "limit", 100)

	checks, err := s.Store.RecentChecks(window, limit)
	if err != nil {
		s.Logger.Warn("checks_read_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not read check log")
		return
	}
	if checks == nil {
		checks = []domain.CheckResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"checks": checks,
		"count":  len(checks),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"endpoints":              s.Endpoints.List(),
		"check_interval_seconds": int(s.Interval.Seconds()),
	})
}

func (s *Server) handleAddEndpoint(w http.ResponseWriter, r *http.Request) {
	var ep domain.Endpoint
	if err := json.NewDecoder(r.Body).Decode(&ep); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if err := s.Endpoints.Add(ep); err != nil {
		switch {
		case errors.Is(err, config.ErrInvalidURL):
			writeError(w, http.StatusBadRequest, "invalid url")
		case errors.Is(err, config.ErrDuplicate):
			writeError(w, http.StatusConflict, "endpoint already exists")
		default:
			s.Logger.Warn("config_write_error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not persist config")
		}
		return
	}

	s.Logger.Info("endpoint_added",
		zap.String("url", ep.URL),
		zap.String("name", ep.Name),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"endpoints_count": s.Endpoints.Len(),
	})
}

type removePayload struct {
	URL string `json:"url"`
}

func (s *Server) handleRemoveEndpoint(w http.ResponseWriter, r *http.Request) {
	var p removePayload
	_ = json.NewDecoder(r.Body).Decode(&p)
	if p.URL == "" {
		p.URL = r.URL.Query().Get("url")
	}
	if p.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}

	if err := s.Endpoints.Remove(p.URL); err != nil {
		switch {
		case errors.Is(err, config.ErrNotFound):
			writeError(w, http.StatusNotFound, "endpoint not found")
		default:
			s.Logger.Warn("config_write_error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not persist config")
		}
		return
	}
	s.Tracker.Forget(p.URL)

	s.Logger.Info("endpoint_removed", zap.String("url", p.URL))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"endpoints_count": s.Endpoints.Len(),
	})
}

func (s *Server) handleTriggerCheck(w http.ResponseWriter, r *http.Request) {
	ran := s.Runner.RunOnce(r.Context())
	if !ran {
		s.Logger.Info("manual_check_skipped_cycle_running")
	}
	sum, err := s.Store.Summary(time.Hour)
	if err != nil {
		s.Logger.Warn("status_read_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not read check log")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// maxWindowHours caps the read window: beyond a year the day-file scan gets
// unbounded and huge values overflow time.Duration into a negative window.
const maxWindowHours = 24 * 365

func hoursWindow(r *http.Request, def int) time.Duration {
	h := intQuery(r, "hours", def)
	if h > maxWindowHours {
		h = maxWindowHours
	}
	return time.Duration(h) * time.Hour
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
