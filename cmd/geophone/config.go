package main

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vortex-fintech/geophone/validator"
)

const (
	envPrefix      = "GEOPHONE"
	configName     = ".geophone"
	defaultEnvFile = ".env"
)

// Source kinds.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
)

type Config struct {
	Env    string       `mapstructure:"env"`
	Strict bool         `mapstructure:"strict"`
	Source SourceConfig `mapstructure:"source"`
	HTTP   HTTPConfig   `mapstructure:"http"`
}

type SourceConfig struct {
	Kind     string         `mapstructure:"kind" validate:"required,oneof=embedded file postgres redis"`
	File     string         `mapstructure:"file" validate:"required_if=Kind file"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL   string `mapstructure:"url"`
	Query string `mapstructure:"query"`
}

type RedisConfig struct {
	Mode       string   `mapstructure:"mode" validate:"omitempty,oneof=single sentinel cluster"`
	Addr       string   `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Addrs      []string `mapstructure:"addrs" validate:"omitempty,dive,hostname_port"`
	MasterName string   `mapstructure:"master_name"`
	Password   string   `mapstructure:"password"`
	DB         int      `mapstructure:"db" validate:"gte=0"`
	Key        string   `mapstructure:"key"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required,hostname_port"`
	MetricsAddr     string        `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

var defaults = map[string]any{
	"env":                      "production",
	"strict":                   false,
	"source.kind":              SourceEmbedded,
	"source.file":              "",
	"source.postgres.url":      "",
	"source.postgres.query":    "",
	"source.redis.mode":        "",
	"source.redis.addr":        "",
	"source.redis.addrs":       []string{},
	"source.redis.master_name": "",
	"source.redis.password":    "",
	"source.redis.db":          0,
	"source.redis.key":         "",
	"http.addr":                ":8080",
	"http.metrics_addr":        ":9090",
	"http.shutdown_timeout":    10 * time.Second,
}

// flagKeys binds command-line flags to config keys.
var flagKeys = map[string]string{
	"env":          "env",
	"strict":       "strict",
	"source":       "source.kind",
	"source-file":  "source.file",
	"addr":         "http.addr",
	"metrics-addr": "http.metrics_addr",
}

// loadConfig merges defaults, the config file, the environment (after
// .env) and flags, in rising precedence.
func loadConfig(cmd *cobra.Command, configFile, envFile string) (Config, error) {
	var cfg Config

	if err := loadEnvFile(envFile); err != nil {
		return cfg, err
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &nf) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	return cfg, cfg.validate()
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func (c Config) validate() error {
	fields := validator.Validate(c)
	if fields == nil {
		fields = map[string]string{}
	}
	switch c.Source.Kind {
	case SourcePostgres:
		if strings.TrimSpace(c.Source.Postgres.URL) == "" {
			fields["Source.Postgres.URL"] = "required"
		}
	case SourceRedis:
		if strings.TrimSpace(c.Source.Redis.Addr) == "" && len(c.Source.Redis.Addrs) == 0 {
			fields["Source.Redis.Addr"] = "required"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fields[k]
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(parts, ", "))
}
