package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"uptimeping/internal/config"
	apimw "uptimeping/internal/httpapi/middleware"
	"uptimeping/internal/scheduler"
	"uptimeping/internal/storage"
	"uptimeping/internal/track"
)

type Server struct {
	Logger    *zap.Logger
	Endpoints *config.Store
	Store     *storage.Store
	Runner    *scheduler.Runner
	Tracker   *track.Tracker
	Interval  time.Duration
}

func NewServer(
	l *zap.Logger,
	endpoints *config.Store,
	store *storage.Store,
	runner *scheduler.Runner,
	tracker *track.Tracker,
	interval time.Duration,
) *Server {
	return &Server{
		Logger:    l,
		Endpoints: endpoints,
		Store:     store,
		Runner:    runner,
		Tracker:   tracker,
		Interval:  interval,
	}
}

func (s *Server) Router(adminKeys []string, ratePerMin, rateBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(apimw.RateLimit(ratePerMin, rateBurst))

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/status", s.handleStatus)
	r.Get("/uptime/*", s.handleUptime)
	r.Get("/checks", s.handleChecks)
	r.Get("/config", s.handleConfig)

	r.Group(func(g chi.Router) {
		g.Use(apimw.RequireAdmin(adminKeys))
		g.Post("/config/endpoints", s.handleAddEndpoint)
		g.Delete("/config/endpoints", s.handleRemoveEndpoint)
		g.Post("/check", s.handleTriggerCheck)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
