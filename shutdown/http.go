package shutdown

import (
	"context"
	"errors"
	"net"
	"net/http"
)

var errNoServer = errors.New("shutdown: http server is nil")

// HTTP adapts *http.Server to Server. With Lis set it serves on that
// listener, otherwise on Srv.Addr.
type HTTP struct {
	Srv     *http.Server
	Lis     net.Listener
	NameStr string
}

func (h *HTTP) Name() string {
	if h.NameStr == "" {
		return "http"
	}
	return h.NameStr
}

// Serve blocks until the server fails or ctx ends. Request contexts derive
// from ctx.
func (h *HTTP) Serve(ctx context.Context) error {
	if h.Srv == nil {
		return errNoServer
	}
	h.Srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		if h.Lis != nil {
			errCh <- h.Srv.Serve(h.Lis)
			return
		}
		errCh <- h.Srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (h *HTTP) GracefulStopWithTimeout(ctx context.Context) error {
	if h.Srv == nil {
		return errNoServer
	}
	return h.Srv.Shutdown(ctx)
}

func (h *HTTP) ForceStop() {
	if h.Srv != nil {
		_ = h.Srv.Close()
	}
}
