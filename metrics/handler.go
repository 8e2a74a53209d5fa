package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the /metrics and /health endpoints.
type Options struct {
	Registry *prometheus.Registry
	// Register adds service collectors, e.g. (*Collector).Register.
	Register      func(reg prometheus.Registerer) error
	Health        func(ctx context.Context, r *http.Request) error
	MetricsPath   string
	HealthPath    string
	HealthTimeout time.Duration
}

func registerOnce(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// New builds the /metrics and /health handler along with its registry.
func New(opts Options) (http.Handler, *prometheus.Registry, error) {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.HealthPath == "" {
		opts.HealthPath = "/health"
	}
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = 500 * time.Millisecond
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	if err := registerOnce(reg, prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{})); err != nil {
		return nil, nil, err
	}
	if err := registerOnce(reg, prometheus.NewGoCollector()); err != nil {
		return nil, nil, err
	}
	if opts.Register != nil {
		if err := opts.Register(reg); err != nil {
			return nil, nil, err
		}
	}

	mux := http.NewServeMux()
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc(opts.HealthPath, healthHandler(opts.Health, opts.HealthTimeout))
	return mux, reg, nil
}

func healthHandler(check func(context.Context, *http.Request) error, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			writeOK(w)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		errCh := make(chan error, 1)
		go func() { errCh <- check(ctx, r) }()

		select {
		case err := <-errCh:
			if err != nil {
				http.Error(w, "UNHEALTHY: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
			writeOK(w)
		case <-ctx.Done():
			http.Error(w, "UNHEALTHY: health timeout", http.StatusServiceUnavailable)
		}
	}
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
