package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/hm2prom/internal/infrastructure/config"
	"github.com/nerrad567/hm2prom/internal/infrastructure/logging"
	"github.com/nerrad567/hm2prom/internal/poll"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// StatusProvider reports the poll loop's readiness and latest status.
// *poll.Loop satisfies it.
type StatusProvider interface {
	Ready() bool
	Status() poll.Status
}

// ControllerState reports the outcome of the most recent controller fetch.
// *ccu.Client satisfies it.
type ControllerState interface {
	BaseURL() string
	IsReachable() bool
	LastError() error
}

// BrokerState reports whether the optional MQTT publisher is connected.
type BrokerState interface {
	IsConnected() bool
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	Logger     *logging.Logger
	Gatherer   prometheus.Gatherer
	Status     StatusProvider
	Controller ControllerState
	Version    string
}

// Server exposes the metrics endpoint plus health and status documents.
//
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	gatherer  prometheus.Gatherer
	status     StatusProvider
	controller ControllerState
	version    string
	startTime  time.Time
	now        func() time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	mqtt     BrokerState
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("%w: logger is required", ErrMissingDependency)
	}
	if deps.Gatherer == nil {
		return nil, fmt.Errorf("%w: metrics gatherer is required", ErrMissingDependency)
	}
	if deps.Status == nil {
		return nil, fmt.Errorf("%w: status provider is required", ErrMissingDependency)
	}
	if deps.Controller == nil {
		return nil, fmt.Errorf("%w: controller state is required", ErrMissingDependency)
	}

	return &Server{
		cfg:        deps.Config,
		logger:     deps.Logger,
		gatherer:   deps.Gatherer,
		status:     deps.Status,
		controller: deps.Controller,
		version:    deps.Version,
		startTime:  time.Now(),
		now:        time.Now,
	}, nil
}

// Start binds the listener and serves HTTP in a background goroutine.
//
// Binding happens synchronously so that a port already in use is reported
// to the caller. The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return ErrAlreadyStarted
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	s.logger.Info("API server starting", "address", ln.Addr().String(), "metrics_path", s.cfg.MetricsPath)

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// SetBroker attaches the MQTT publisher once it has connected, so that
// /status reports its state. The server may already be serving.
func (s *Server) SetBroker(b BrokerState) {
	s.mu.Lock()
	s.mqtt = b
	s.mu.Unlock()
}

func (s *Server) broker() BrokerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mqtt
}
