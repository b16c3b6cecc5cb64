package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/toolshed/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "toolshed.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TOOLSHED_"

// Config is the server configuration.
type Config struct {
	Addr               string    `yaml:"addr"`
	BaseURL            string    `yaml:"base_url"`
	SiteName           string    `yaml:"site_name"`
	SiteDescription    string    `yaml:"site_description"`
	Log                LogConfig `yaml:"log"`
	RateLimit          RateLimit `yaml:"rate_limit"`
	MaxBodyBytes       int64     `yaml:"max_body_bytes"`
	RedirectSubdomains bool      `yaml:"redirect_subdomains"`
	TrustProxy         bool      `yaml:"trust_proxy"`
	Metrics            bool      `yaml:"metrics"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RateLimit configures tool invocation quotas. Requests 0 disables limiting.
// A RedisAddr moves the counters to Redis so replicas share them.
type RateLimit struct {
	Requests  int           `yaml:"requests"`
	Window    time.Duration `yaml:"window"`
	RedisAddr string        `yaml:"redis_addr"`
	Prefix    string        `yaml:"prefix"`
}

// Enabled reports whether requests are limited at all.
func (r RateLimit) Enabled() bool { return r.Requests > 0 }

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:            ":8080",
		BaseURL:         "http://localhost:8080",
		SiteName:        "toolshed",
		SiteDescription: "Free developer utilities: encoders, formatters, generators, date and text tools.",
		Log:             LogConfig{Level: "info", Format: "text"},
		RateLimit:       RateLimit{Requests: 0, Window: time.Minute},
		MaxBodyBytes:    1 << 20,
		Metrics:         true,
	}
}

// Load reads path, applies environment overrides and validates the result.
// A missing file is not an error.
func Load(path string) (Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment lookup.
func LoadWith(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := get("BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("RATE_LIMIT"); ok {
		n, window, err := ParseRate(v)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err)
		}
		c.RateLimit.Requests = n
		if window > 0 {
			c.RateLimit.Window = window
		}
	}
	if v, ok := get("REDIS_ADDR"); ok {
		c.RateLimit.RedisAddr = v
	}
	if v, ok := get("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_BODY_BYTES: %w", EnvPrefix, err)
		}
		c.MaxBodyBytes = n
	}
	if v, ok := get("REDIRECT_SUBDOMAINS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREDIRECT_SUBDOMAINS: %w", EnvPrefix, err)
		}
		c.RedirectSubdomains = b
	}
	return nil
}

// ParseRate reads "N" or "N/window", e.g. "60/1m". A bare count keeps the
// configured window and is reported with a zero duration.
func ParseRate(s string) (int, time.Duration, error) {
	count, window, hasWindow := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	if !hasWindow {
		return n, 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(window))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rate window %q: %w", window, err)
	}
	return n, d, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		errs = append(errs, fmt.Errorf("addr %q: %w", c.Addr, err))
	}
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url %q: must be an absolute http(s) URL", c.BaseURL))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format %q: must be text or json", c.Log.Format))
	}
	if c.RateLimit.Requests < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests: must not be negative, got %d", c.RateLimit.Requests))
	}
	if c.RateLimit.Enabled() && c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.window: must be positive, got %s", c.RateLimit.Window))
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes: must not be negative, got %d", c.MaxBodyBytes))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// CanonicalHost is the host part of BaseURL, without port.
func (c Config) CanonicalHost() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
