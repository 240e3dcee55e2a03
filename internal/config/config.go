// Package config loads settings from defaults, an optional config file,
// a .env file and NATUREPOWER_* environment variables, in increasing
// order of precedence. Command-line flags are bound on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/naturepower/internal/store"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "NATUREPOWER"

// FileName is the config file looked up in the data directory.
const FileName = "naturepower"

// Config is the resolved application configuration.
type Config struct {
	Store   Store   `mapstructure:"store"`
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	Catalog Catalog `mapstructure:"catalog"`
	Sweep   Sweep   `mapstructure:"sweep"`
}

type Store struct {
	Backend    string `mapstructure:"backend" validate:"oneof=memory file sqlite redis"`
	Dir        string `mapstructure:"dir"`
	QuotaBytes int    `mapstructure:"quota_bytes" validate:"gte=0"`
	Redis      Redis  `mapstructure:"redis"`
}

type Redis struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

type Server struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type Log struct {
	Mode string `mapstructure:"mode" validate:"oneof=dev prod json production development"`
}

type Catalog struct {
	Dir string `mapstructure:"dir"`
}

type Sweep struct {
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// StoreOptions converts the store section for store.Open.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.Store.Backend,
		Dir:         c.Store.Dir,
		QuotaBytes:  c.Store.QuotaBytes,
		RedisAddr:   c.Store.Redis.Addr,
		RedisPrefix: c.Store.Redis.Prefix,
	}
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.dir", "")
	v.SetDefault("store.quota_bytes", 5<<20)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.prefix", "naturepower:")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("catalog.dir", "")
	v.SetDefault("sweep.interval", 5*time.Minute)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config and .env files into v and returns the
// validated configuration. file may be empty, in which case
// naturepower.{yaml,yml,json,toml} is looked up in the data directory.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		if dir, err := store.DefaultDataDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Store.Backend == store.BackendRedis && cfg.Store.Redis.Addr == "" {
		return errors.New("invalid config: store.redis.addr is required for the redis backend")
	}
	return nil
}

// loadDotEnv loads path into the process environment when it exists.
// Variables already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return nil
}
