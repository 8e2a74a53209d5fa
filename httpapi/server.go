// Package httpapi exposes a Resolver over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vortex-fintech/geophone/logger"
	"github.com/vortex-fintech/geophone/metrics"
	"github.com/vortex-fintech/geophone/phone"
)

const (
	// MaxBatch bounds POST /v1/numbers:lookup.
	MaxBatch     = 1000
	maxBodyBytes = 1 << 20
)

// Server serves resolver lookups.
type Server struct {
	resolver *phone.Resolver
	log      logger.LoggerInterface
	metrics  *metrics.Collector
	timeout  time.Duration
}

type Option func(*Server)

func WithLogger(l logger.LoggerInterface) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records lookups and formats on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithTimeout caps request handling time. Zero disables the cap.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

func New(resolver *phone.Resolver, opts ...Option) *Server {
	s := &Server{
		resolver: resolver,
		log:      logger.Nop(),
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestIDToLogger)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/providers", s.handleProviders)
		r.Post("/numbers:lookup", s.handleBatchLookup)

		r.Route("/numbers/{number}", func(r chi.Router) {
			r.Get("/", s.handleLookup)
			r.Get("/provider", s.handleProvider)
			r.Get("/format", s.handleFormat)
			r.Get("/is/{provider}", s.handleIs)
		})
	})

	return r
}

func requestIDToLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logger.ContextWithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog logs the route pattern rather than the raw path so numbers
// never reach the log.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		kv := []any{
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(started),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.log.WarnwCtx(r.Context(), "http request", kv...)
			return
		}
		s.log.InfowCtx(r.Context(), "http request", kv...)
	})
}
