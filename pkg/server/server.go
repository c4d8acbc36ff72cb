// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/serializer"
)

// System routes are served without the application middleware.
const (
	routeHealth  = "/health"
	routeReady   = "/ready"
	routeMetrics = "/metrics"
)

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the configuration. Routes and checks are kept.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithName sets the server name reported by the root handler.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the server version reported by the root handler.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.config.Address = addr
	}
}

// WithPort sets the listen port.
func WithPort(port int) Option {
	return func(s *Server) {
		s.config.Port = port
	}
}

// WithHandler adds application routes, keyed by ServeMux pattern. A later
// handler for the same pattern replaces the earlier one.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		maps.Copy(s.routes, handlers)
	}
}

// WithReadyCheck adds a named readiness check run by /ready.
func WithReadyCheck(name string, check ReadyCheck) Option {
	return func(s *Server) {
		s.checks = append(s.checks, namedCheck{name: name, check: check})
	}
}

type namedCheck struct {
	name  string
	check ReadyCheck
}

// Server serves application routes behind rate limiting, body limits and
// metrics, plus health, readiness and metrics endpoints.
type Server struct {
	config      *Config
	routes      map[string]http.HandlerFunc
	checks      []namedCheck
	httpServer  *http.Server
	rateLimiter *rate.Limiter

	mu    sync.RWMutex
	ready bool
}

// New creates a server. Options are applied in order.
func New(opts ...Option) *Server {
	s := &Server{
		config: NewConfig(),
		routes: make(map[string]http.HandlerFunc),
	}
	for _, o := range opts {
		o(s)
	}
	if _, ok := s.routes["/"]; !ok {
		s.routes["/"] = s.handleDefault
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(s.config.Address, fmt.Sprint(s.config.Port)),
		Handler:           s.newMux(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	return s
}

// Handler returns the root handler with every route.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(routeHealth, s.handleHealth)
	mux.HandleFunc(routeReady, s.handleReady)
	mux.Handle(routeMetrics, promhttp.Handler())

	for pattern, h := range s.routes {
		mux.HandleFunc(pattern, s.wrap(pattern, h))
	}
	return mux
}

// routeList is the sorted list of application and system routes.
func (s *Server) routeList() []string {
	out := []string{routeHealth, routeReady, routeMetrics}
	for pattern := range s.routes {
		if pattern != "/" {
			out = append(out, pattern)
		}
	}
	slices.Sort(out)
	return out
}

// rootInfo is the body of the default "/" handler.
type rootInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	APIVersion string   `json:"apiVersion"`
	Ready      bool     `json:"ready"`
	Timestamp  string   `json:"timestamp"`
	Routes     []string `json:"routes"`
}

// handleDefault describes the service on "/" and answers 404 for every
// path no other route matched.
func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, cerrors.ErrCodeNotFound,
			"Route not found", false, map[string]any{"path": r.URL.Path, "routes": s.routeList()})
		return
	}
	if !allowGet(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, rootInfo{
		Name:       s.config.Name,
		Version:    s.config.Version,
		APIVersion: APIVersion(r.Context()),
		Ready:      s.isReady(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Routes:     s.routeList(),
	})
}

func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. The
// server reports ready once ln is accepting.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	slog.Info("server listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()
	s.setReady(true)

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		s.setReady(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting requests and waits for in-flight ones up to the
// configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.setReady(false)

	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server", "timeout", s.config.ShutdownTimeout)
	return s.httpServer.Shutdown(ctx)
}

// Run starts the server and blocks until SIGINT, SIGTERM or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("server config",
		"name", s.config.Name,
		"version", s.config.Version,
		"address", s.httpServer.Addr,
		"routes", s.routeList(),
		"readyChecks", len(s.checks),
		"rateLimit", float64(s.config.RateLimit),
		"rateLimitBurst", s.config.RateLimitBurst,
		"maxBodyBytes", s.config.MaxBodyBytes,
		"shutdownTimeout", s.config.ShutdownTimeout,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
