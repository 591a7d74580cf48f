package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/poll"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Handle(s.metricsPath(), promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		ErrorLog:      promErrorLogger{s.logger},
		ErrorHandling: promhttp.ContinueOnError,
	}))
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	return r
}

func (s *Server) metricsPath() string {
	if s.cfg.MetricsPath == "" {
		return "/metrics"
	}
	return s.cfg.MetricsPath
}

// DocumentHealth describes the freshness of one volatile document.
type DocumentHealth struct {
	LastRefresh time.Time `json:"last_refresh"`
	AgeSeconds  float64   `json:"age_seconds"`
}

// ControllerHealth is the outcome of the most recent fetch from the controller.
// Reachable stays false until the first fetch has completed.
type ControllerHealth struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	LastError string `json:"last_error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version"`
	Controller ControllerHealth          `json:"controller"`
	Documents  map[string]DocumentHealth `json:"documents,omitempty"`
}

func (s *Server) controllerHealth() ControllerHealth {
	h := ControllerHealth{
		URL:       s.controller.BaseURL(),
		Reachable: s.controller.IsReachable(),
	}
	if err := s.controller.LastError(); err != nil {
		h.LastError = err.Error()
	}
	return h
}

// handleHealth returns 200 once the inventory is built, and 503 before.
// The response lists how long ago each volatile document was refreshed.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.status.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:     "starting",
			Version:    s.version,
			Controller: s.controllerHealth(),
		})
		return
	}

	st := s.status.Status()
	now := s.now()
	resp := HealthResponse{
		Status:     "ok",
		Version:    s.version,
		Controller: s.controllerHealth(),
		Documents:  make(map[string]DocumentHealth),
	}
	for _, doc := range ccu.AllDocuments {
		at, ok := st.LastRefresh[doc.String()]
		if !ok || !doc.Volatile() {
			continue
		}
		resp.Documents[doc.String()] = DocumentHealth{
			LastRefresh: at,
			AgeSeconds:  now.Sub(at).Seconds(),
		}
	}
	if st.Stale {
		resp.Status = "stale"
	}

	writeJSON(w, http.StatusOK, resp)
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	poll.Status
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Ready         bool             `json:"ready"`
	Controller    ControllerHealth `json:"controller"`
	MQTTConnected *bool            `json:"mqtt_connected,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		Status:        s.status.Status(),
		Version:       s.version,
		UptimeSeconds: int64(s.now().Sub(s.startTime).Seconds()),
		Ready:         s.status.Ready(),
		Controller:    s.controllerHealth(),
	}
	if b := s.broker(); b != nil {
		connected := b.IsConnected()
		resp.MQTTConnected = &connected
	}
	writeJSON(w, http.StatusOK, resp)
}
