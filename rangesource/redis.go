package rangesource

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/retry"
)

// DefaultRedisKey holds the table document when no key is configured.
const DefaultRedisKey = "geophone:ranges"

// Redis modes.
const (
	ModeSingle   = "single"
	ModeSentinel = "sentinel"
	ModeCluster  = "cluster"
)

var (
	errNoRedisClient        = errors.New("rangesource: redis client is required")
	errAddressRequired      = errors.New("redis: address is required")
	errUnsupportedMode      = errors.New("redis: unsupported mode")
	errMasterNameRequired   = errors.New("redis: master name is required for sentinel mode")
	errMasterNameUnexpected = errors.New("redis: master name is only valid for sentinel mode")
	errSingleModeAddrCount  = errors.New("redis: single mode requires exactly one address")
	errClusterModeAddrCount = errors.New("redis: cluster mode requires at least two addresses")
	errClusterDBUnsupported = errors.New("redis: db must be 0 in cluster mode")
	errInvalidDB            = errors.New("redis: db must be >= 0")
)

// Replaceable in tests.
var newUniversal = func(opt *redis.UniversalOptions) redis.UniversalClient {
	return redis.NewUniversalClient(opt)
}

// RedisConfig describes a single, sentinel or cluster deployment.
type RedisConfig struct {
	Mode        string
	Addr        string
	Addrs       []string
	MasterName  string
	DB          int
	Username    string
	Password    string
	DialTimeout time.Duration
	ReadTimeout time.Duration
	TLSEnabled  bool
}

func (c RedisConfig) mode() string {
	m := strings.ToLower(strings.TrimSpace(c.Mode))
	if m == "" {
		return ModeSingle
	}
	return m
}

func (c RedisConfig) addrs() []string {
	out := make([]string, 0, len(c.Addrs)+1)
	for _, a := range c.Addrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		if a := strings.TrimSpace(c.Addr); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (c RedisConfig) validate() error {
	if c.DB < 0 {
		return errInvalidDB
	}
	addrs := c.addrs()
	if len(addrs) == 0 {
		return errAddressRequired
	}
	master := strings.TrimSpace(c.MasterName)

	switch c.mode() {
	case ModeSingle:
		if len(addrs) != 1 {
			return errSingleModeAddrCount
		}
		if master != "" {
			return errMasterNameUnexpected
		}
	case ModeCluster:
		if len(addrs) < 2 {
			return errClusterModeAddrCount
		}
		if master != "" {
			return errMasterNameUnexpected
		}
		if c.DB != 0 {
			return errClusterDBUnsupported
		}
	case ModeSentinel:
		if master == "" {
			return errMasterNameRequired
		}
	default:
		return errUnsupportedMode
	}
	return nil
}

// NewRedisClient builds a UniversalClient and pings it.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (redis.UniversalClient, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := &redis.UniversalOptions{
		Addrs:       cfg.addrs(),
		MasterName:  strings.TrimSpace(cfg.MasterName),
		DB:          cfg.DB,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	}
	if cfg.TLSEnabled {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := newUniversal(opt)

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Getter is the part of a redis client the source needs.
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis loads a YAML or JSON table document stored under Key.
type Redis struct {
	Client Getter
	Key    string
}

func (r Redis) Name() string { return "redis" }

func (r Redis) Load(ctx context.Context) (phone.Table, error) {
	if r.Client == nil {
		return nil, retry.Permanent(errNoRedisClient)
	}
	key := strings.TrimSpace(r.Key)
	if key == "" {
		key = DefaultRedisKey
	}

	b, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, retry.Permanent(fmt.Errorf("rangesource: redis key %q not found", key))
		}
		return nil, fmt.Errorf("rangesource: redis get %q: %w", key, err)
	}
	return DecodeBytes(b)
}
