// Package shutdown runs servers together and stops them gracefully.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/geophone/logger"
)

// Server is anything Manager can run and stop.
type Server interface {
	Serve(ctx context.Context) error
	GracefulStopWithTimeout(ctx context.Context) error
	ForceStop()
	Name() string
}

type Config struct {
	// ShutdownTimeout bounds graceful stop; 0 forces an immediate stop.
	ShutdownTimeout time.Duration
	// HandleSignals cancels Run on SIGINT and SIGTERM.
	HandleSignals bool
	// IsNormalError reports Serve errors expected during shutdown.
	IsNormalError func(error) bool
	Log           logger.LoggerInterface
}

type Manager struct {
	cfg     Config
	mu      sync.Mutex
	servers []Server
	stopped bool
}

func New(cfg Config) *Manager {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	if cfg.IsNormalError == nil {
		cfg.IsNormalError = IsNormalError
	}
	return &Manager{cfg: cfg}
}

// Add registers s. Nil servers are ignored.
func (m *Manager) Add(s Server) {
	if s == nil {
		return
	}
	m.servers = append(m.servers, s)
}

// Run serves every server until ctx ends, a signal arrives, or one of them
// fails, then stops them all. It returns the first unexpected Serve error.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.HandleSignals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range m.servers {
		g.Go(func() error {
			name := srv.Name()
			m.cfg.Log.Infow("serve start", "server", name)
			err := srv.Serve(gctx)
			if err != nil && !m.cfg.IsNormalError(err) && gctx.Err() == nil {
				m.cfg.Log.Errorw("serve failed", "server", name, "error", err)
				return fmt.Errorf("%s: %w", name, err)
			}
			m.cfg.Log.Infow("serve stop", "server", name)
			return nil
		})
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()

	select {
	case <-ctx.Done():
		m.cfg.Log.Infow("shutdown requested")
		m.Stop()
	case err := <-waitCh:
		m.Stop()
		return err
	}

	select {
	case err := <-waitCh:
		return err
	case <-time.After(m.cfg.ShutdownTimeout + 2*time.Second):
		return fmt.Errorf("shutdown: servers still running after %s", m.cfg.ShutdownTimeout)
	}
}

// Stop gracefully stops every server, forcing those that miss the
// deadline. Only the first call has an effect.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, srv := range m.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.stopOne(ctx, srv)
		}()
	}
	wg.Wait()

	m.cfg.Log.Infow("shutdown complete", "elapsed", time.Since(started))
}

func (m *Manager) stopOne(ctx context.Context, srv Server) {
	name := srv.Name()
	done := make(chan error, 1)
	go func() { done <- srv.GracefulStopWithTimeout(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			m.cfg.Log.Warnw("graceful stop failed, forcing", "server", name, "error", err)
			srv.ForceStop()
			return
		}
		m.cfg.Log.Infow("graceful stop done", "server", name)
	case <-ctx.Done():
		m.cfg.Log.Warnw("graceful stop timed out, forcing", "server", name)
		srv.ForceStop()
	}
}

// IsNormalError reports errors servers return when they are closed on
// purpose.
func IsNormalError(err error) bool {
	if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
