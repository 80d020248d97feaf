// Package api serves the identity handler groups over HTTP with
// gorilla/mux.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/routing"
)

const DefaultShutdownTimeout = 10 * time.Second

// ServerConfig configures a Server.
type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// Addr is host:port.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ServerOption configures a Server.
type ServerOption func(*Server)

func WithServerLogger(l corelog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithMetricsHandler exposes g on GET /metrics.
func WithMetricsHandler(g prometheus.Gatherer) ServerOption {
	return func(s *Server) { s.gatherer = g }
}

func WithHTTPMetrics(m *HTTPMetrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// Server binds a route table onto a mux router.
type Server struct {
	cfg      ServerConfig
	router   *mux.Router
	http     *http.Server
	logger   corelog.Logger
	metrics  *HTTPMetrics
	gatherer prometheus.Gatherer
	bound    int
}

// NewServer creates a server with GET / and, when configured, /metrics.
// Routes are added with BindRoutes.
func NewServer(cfg ServerConfig, opts ...ServerOption) *Server {
	s := &Server{cfg: cfg, router: mux.NewRouter()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = corelog.Default()
	}
	s.logger = s.logger.WithField("component", "http")
	if s.cfg.ShutdownTimeout <= 0 {
		s.cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s.router.Use(requestIDMiddleware, accessLog(s.logger, s.metrics))
	s.router.NotFoundHandler = http.HandlerFunc(notFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	s.router.HandleFunc("/", welcome).Methods(http.MethodGet)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// BindRoutes registers every route of the table.
func (s *Server) BindRoutes(routes []routing.Route) {
	for _, rt := range routes {
		s.router.HandleFunc(rt.FullPath, rt.Handler).Methods(rt.Method)
		s.logger.Debugf("bound %s %s (%s)", rt.Method, rt.FullPath, rt.Group)
		s.bound++
	}
}

// Bound is the number of routes bound so far.
func (s *Server) Bound() int { return s.bound }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Addr() string { return s.http.Addr }

// Serve listens until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return coreerrors.Wrapf(err, coreerrors.CodeUnavailable, "listen on %s", s.http.Addr)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Infof("listening on http://%s", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func welcome(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, coreerrors.Newf(coreerrors.CodeNotFound, "Route %s %s not found", r.Method, r.URL.Path))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	err := &coreerrors.Error{Code: coreerrors.CodeInvalidRequest, Message: "Method " + r.Method + " not allowed"}
	body := NewErrorBody(err, time.Now())
	body.Status = http.StatusMethodNotAllowed
	respondJSON(w, body.Status, body)
}
