// Package httpapi exposes the task store as a local JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"taskmaster/internal/service"
)

// ShutdownTimeout bounds graceful shutdown after the context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server serves one store over HTTP.
type Server struct {
	svc      service.Service
	logger   *logrus.Logger
	now      func() time.Time
	registry *prometheus.Registry
	router   *mux.Router
}

// NewServer builds the router for svc.
func NewServer(svc service.Service, logger *logrus.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
		now:    time.Now,
	}
	s.registry = newRegistry(svc, func() time.Time { return s.now() })
	s.router = s.routes(newMetrics(s.registry))
	return s
}

// SetNow sets the clock used for overdue checks (for testing).
func (s *Server) SetNow(now func() time.Time) {
	s.now = now
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(m *metrics) *mux.Router {
	h := &TaskHandler{svc: s.svc, now: func() time.Time { return s.now() }, log: s.logger}

	chain := []mux.MiddlewareFunc{requestIDMiddleware, corsMiddleware, loggingMiddleware(s.logger), m.middleware}

	r := mux.NewRouter()
	r.Use(chain...)
	// mux skips r.Use middleware for unmatched requests.
	r.NotFoundHandler = wrap(http.HandlerFunc(h.NotFound), chain)
	r.MethodNotAllowedHandler = wrap(http.HandlerFunc(h.MethodNotAllowed), chain)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tasks", h.ListTasks).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", h.GetTask).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tasks/{id}", h.EditTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/toggle", h.ToggleTask).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/state", h.GetState).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/filter", h.GetFilter).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/filter", h.SetFilter).Methods(http.MethodPut)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// wrap applies middleware in the same order as mux.Router.Use.
func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Returns nil after a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
