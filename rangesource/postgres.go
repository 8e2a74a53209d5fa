package rangesource

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// SQLStateUndefinedTable is reported when the ranges table is missing.
const SQLStateUndefinedTable = "42P01"

// Replaceable in tests.
var openSQL = sql.Open

// PostgresConfig selects a database either by URL or by host parts.
// URL wins when both are set.
type PostgresConfig struct {
	URL string

	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

var (
	errPostgresTarget          = errors.New("postgres: url or host is required")
	errPortRequired            = errors.New("postgres: port is required")
	errDBNameRequired          = errors.New("postgres: db name is required")
	errNegativeMaxConns        = errors.New("postgres: max open conns must be >= 0")
	errNegativeIdleConns       = errors.New("postgres: max idle conns must be >= 0")
	errIdleConnsExceedMaxConns = errors.New("postgres: max idle conns must be <= max open conns")
)

func (c PostgresConfig) validate() error {
	if strings.TrimSpace(c.URL) == "" {
		if strings.TrimSpace(c.Host) == "" {
			return errPostgresTarget
		}
		if strings.TrimSpace(c.Port) == "" {
			return errPortRequired
		}
		if strings.TrimSpace(c.DBName) == "" {
			return errDBNameRequired
		}
	}
	if c.MaxOpenConns < 0 {
		return errNegativeMaxConns
	}
	if c.MaxIdleConns < 0 {
		return errNegativeIdleConns
	}
	if c.MaxOpenConns > 0 && c.MaxIdleConns > c.MaxOpenConns {
		return errIdleConnsExceedMaxConns
	}
	return nil
}

// dsn builds the connection string; host parts are IPv6-safe.
func (c PostgresConfig) dsn() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + strings.TrimPrefix(c.DBName, "/"),
	}
	if c.User != "" || c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	q := u.Query()
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	q.Set("application_name", "geophone")
	u.RawQuery = q.Encode()
	return u.String()
}

// OpenPostgres opens a pgx-backed *sql.DB and pings it.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*sql.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	db, err := openSQL("pgx", cfg.dsn())
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// IsUndefinedTable reports a Postgres 42P01 error anywhere in err's chain.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == SQLStateUndefinedTable
}
