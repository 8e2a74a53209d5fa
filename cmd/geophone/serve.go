package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/geophone/httpapi"
	"github.com/vortex-fintech/geophone/metrics"
	"github.com/vortex-fintech/geophone/shutdown"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":8080", "HTTP API listen address")
	cmd.Flags().String("metrics-addr", ":9090", "metrics and health listen address; empty disables")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	r, err := a.resolver(ctx)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	collector.SetTable(r.Table())

	api := httpapi.New(r,
		httpapi.WithLogger(a.log),
		httpapi.WithMetrics(collector),
	)

	mgr := shutdown.New(shutdown.Config{
		ShutdownTimeout: a.cfg.HTTP.ShutdownTimeout,
		HandleSignals:   true,
		Log:             a.log,
	})
	mgr.Add(&shutdown.HTTP{
		NameStr: "api",
		Srv: &http.Server{
			Addr:              a.cfg.HTTP.Addr,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	})

	if a.cfg.HTTP.MetricsAddr != "" {
		h, _, err := metrics.New(metrics.Options{
			Register: collector.Register,
			Health: func(context.Context, *http.Request) error {
				if len(r.Providers()) == 0 {
					return errors.New("range table is empty")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		mgr.Add(&shutdown.HTTP{
			NameStr: "metrics",
			Srv: &http.Server{
				Addr:              a.cfg.HTTP.MetricsAddr,
				Handler:           h,
				ReadHeaderTimeout: 5 * time.Second,
			},
		})
	}

	a.log.Infow("serving",
		"addr", a.cfg.HTTP.Addr,
		"metrics_addr", a.cfg.HTTP.MetricsAddr,
		"providers", r.Providers(),
		"strict", r.Strict(),
	)
	return mgr.Run(ctx)
}
