// Package config loads feedpager settings from defaults, an optional config
// file, .env and FEEDPAGER_* environment variables (in increasing priority).
package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/idilsaglam/feedpager/internal/auth"
	"github.com/idilsaglam/feedpager/internal/pager"
	"github.com/idilsaglam/feedpager/internal/state"
)

// DefaultEndpoint serves a JSON array of {id, title, body} objects.
const DefaultEndpoint = "https://jsonplaceholder.typicode.com/posts"

const envPrefix = "FEEDPAGER"

type Config struct {
	Endpoint       string        `mapstructure:"endpoint"`
	ItemsPerPage   int           `mapstructure:"items_per_page"`
	WindowSize     int           `mapstructure:"window_size"`
	RefreshDelay   time.Duration `mapstructure:"refresh_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 0 = none
	RenderAll      bool          `mapstructure:"render_all"`
	Theme          string        `mapstructure:"theme"`

	LogLevel  string `mapstructure:"log_level"`
	LogFile   string `mapstructure:"log_file"`
	LogPretty bool   `mapstructure:"log_pretty"`

	MetricsAddr string `mapstructure:"metrics_addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("items_per_page", state.DefaultPerPage)
	v.SetDefault("window_size", pager.DefaultWindowSize)
	v.SetDefault("refresh_delay", time.Second)
	v.SetDefault("request_timeout", time.Duration(0))
	v.SetDefault("render_all", false)
	v.SetDefault("theme", "classic")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_pretty", true)
	v.SetDefault("metrics_addr", "")
}

// Load reads the configuration. An explicit path must exist; otherwise
// feedpager.{yaml,json,toml} is looked up in the working directory and in
// ~/.feedpager and is optional.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("feedpager")
		v.AddConfigPath(".")
		if dir, err := auth.Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.LogFile != "" {
		cfg.LogFile = filepath.Clean(cfg.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the screen cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return errors.Wrap(err, "endpoint")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("endpoint: unsupported scheme %q", u.Scheme)
	}
	if c.ItemsPerPage <= 0 {
		return errors.Errorf("items_per_page must be positive, got %d", c.ItemsPerPage)
	}
	if c.WindowSize <= 0 {
		return errors.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.RefreshDelay < 0 || c.RequestTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}
