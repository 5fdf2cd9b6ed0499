package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/xbar/internal/server"
	"github.com/matzehuels/xbar/pkg/cache"
	"github.com/matzehuels/xbar/pkg/pipeline"
	"github.com/matzehuels/xbar/pkg/plan"
)

// Config is the on-disk configuration. Command-line flags override it.
//
//	format  = "jsonl"
//	verbose = false
//
//	[serve]
//	addr          = "127.0.0.1:8080"
//	max_terminals = 512
//	rate          = 20.0
//	burst         = 40
//	cache_ttl     = "24h"
//
//	[redis]
//	addr     = "localhost:6379"
//	db       = 0
//	password = ""
//	prefix   = "xbar:"
//	connect_attempts = 3
type Config struct {
	Format  string      `toml:"format"`
	Verbose bool        `toml:"verbose"`
	Serve   ServeConfig `toml:"serve"`
	Redis   RedisConfig `toml:"redis"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr         string   `toml:"addr"`
	MaxTerminals int      `toml:"max_terminals"`
	Rate         float64  `toml:"rate"`
	Burst        int      `toml:"burst"`
	CacheTTL     Duration `toml:"cache_ttl"`
}

// RedisConfig selects the shared plan cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	DB       int    `toml:"db"`
	Password string `toml:"password"`
	Prefix   string `toml:"prefix"`

	// ConnectAttempts is how often the server is pinged before caching is
	// given up on.
	ConnectAttempts int `toml:"connect_attempts"`
}

func (r RedisConfig) cacheConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:         r.Addr,
		DB:           r.DB,
		Password:     r.Password,
		PingAttempts: r.ConnectAttempts,
	}
}

// Duration is a time.Duration written as a string such as "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func defaultConfig() Config {
	return Config{
		Format: pipeline.DefaultFormat,
		Serve: ServeConfig{
			Addr:         server.DefaultAddr,
			MaxTerminals: server.DefaultMaxTerminals,
			Rate:         20,
			Burst:        40,
			CacheTTL:     Duration{pipeline.DefaultCacheTTL},
		},
		Redis: RedisConfig{ConnectAttempts: 3},
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/xbar/config.toml, falling back
// to ~/.config/xbar/config.toml.
func defaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the configuration at path, or at the default location
// when path is empty. A missing default file yields the defaults; a missing
// explicit file is an error. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := plan.ValidateFormat(cfg.Format); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// writeConfig encodes cfg as TOML.
func writeConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
