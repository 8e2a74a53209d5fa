package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/geophone/logger"
	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/rangesource"
)

const serviceName = "geophone"

// app is the state shared by subcommands once config is loaded.
type app struct {
	configFile string
	envFile    string

	cfg     Config
	log     *logger.Logger
	closers []io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "geophone",
		Short:         "Identify Georgian mobile providers and format phone numbers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./.geophone.yaml)")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file loaded before reading the environment (default ./.env)")
	pf.String("env", "production", "logging environment: development, debug or production")
	pf.Bool("strict", false, "also require numbers to be valid Georgian numbers per libphonenumber")
	pf.String("source", rangesource.Embedded().Name(), "range table source: embedded, file, postgres or redis")
	pf.String("source-file", "", "range table file for --source=file")

	root.AddCommand(
		newIdentifyCmd(a),
		newIsCmd(a),
		newFormatCmd(a),
		newParseCmd(a),
		newLookupCmd(a),
		newProvidersCmd(a),
		newServeCmd(a),
	)
	for _, c := range root.Commands() {
		if c.RunE != nil {
			c.RunE = a.closeAfter(c.RunE)
		}
	}
	return root
}

// closeAfter releases source clients and flushes the logger whether or not
// run fails.
func (a *app) closeAfter(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return run(cmd, args)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	// Persistent flags are looked up on the executing command.
	cfg, err := loadConfig(cmd, a.configFile, a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	l, err := logger.New(serviceName, cfg.Env)
	if err != nil {
		return err
	}
	a.log = l
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
	if a.log != nil {
		a.log.SafeSync()
	}
}

// source builds the configured range table source, opening any client it
// needs. Clients are closed after the command finishes.
func (a *app) source(ctx context.Context) (rangesource.Source, error) {
	sc := a.cfg.Source
	switch sc.Kind {
	case SourceEmbedded:
		return rangesource.Embedded(), nil
	case SourceFile:
		return rangesource.File{Path: sc.File}, nil
	case SourcePostgres:
		db, err := rangesource.OpenPostgres(ctx, rangesource.PostgresConfig{URL: sc.Postgres.URL})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db)
		return rangesource.SQL{DB: db, Query: sc.Postgres.Query}, nil
	case SourceRedis:
		rdb, err := rangesource.NewRedisClient(ctx, rangesource.RedisConfig{
			Mode:       sc.Redis.Mode,
			Addr:       sc.Redis.Addr,
			Addrs:      sc.Redis.Addrs,
			MasterName: sc.Redis.MasterName,
			Password:   sc.Redis.Password,
			DB:         sc.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, rdb)
		return rangesource.Redis{Client: rdb, Key: sc.Redis.Key}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", sc.Kind)
	}
}

// table loads and validates the configured range table.
func (a *app) table(ctx context.Context) (phone.Table, error) {
	src, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	return rangesource.Load(ctx, src, a.log)
}

func (a *app) resolver(ctx context.Context) (*phone.Resolver, error) {
	t, err := a.table(ctx)
	if err != nil {
		return nil, err
	}
	var opts []phone.Option
	if a.cfg.Strict {
		opts = append(opts, phone.WithStrictValidation())
	}
	return phone.New(t, opts...)
}
