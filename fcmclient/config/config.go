package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// DefaultProxyTimeout is the timeout ceiling for proxied calls.
const DefaultProxyTimeout = 50 * time.Second

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// ProxyConfig applies to a single call when URL is set.
type ProxyConfig struct {
	URL             string
	Timeout         time.Duration
	FollowRedirects bool
}

// Config is the client configuration surface.
type Config struct {
	APIVersion fcm.APIGeneration

	// Legacy credentials.
	ServerKey string
	SenderID  string

	// V1 credentials. ServiceAccountJSON wins over ServiceAccountFile.
	ServiceAccountFile string
	ServiceAccountJSON []byte

	Proxy ProxyConfig
	Redis RedisConfig
}

// ProxyOptions returns the per-call proxy settings, or nil when no proxy is configured.
func (c *Config) ProxyOptions() *fcm.ProxyOptions {
	if c.Proxy.URL == "" {
		return nil
	}
	timeout := c.Proxy.Timeout
	if timeout <= 0 || timeout > DefaultProxyTimeout {
		timeout = DefaultProxyTimeout
	}
	return &fcm.ProxyOptions{
		URL:             c.Proxy.URL,
		Timeout:         timeout,
		FollowRedirects: c.Proxy.FollowRedirects,
	}
}

// requiredFields lists the settings each generation cannot run without.
func (c *Config) requiredFields() []field {
	switch c.APIVersion {
	case fcm.Legacy:
		return []field{
			{"server_key", "FCM_SERVER_KEY", c.ServerKey != ""},
			{"sender_id", "FCM_SENDER_ID", c.SenderID != ""},
		}
	case fcm.V1:
		return []field{
			{"service_account_file", "GOOGLE_APPLICATION_CREDENTIALS", c.ServiceAccountFile != "" || len(c.ServiceAccountJSON) > 0},
		}
	}
	return nil
}

type field struct {
	name   string
	envVar string
	set    bool
}

// Validate checks every required field and reports all that are missing.
func (c *Config) Validate() error {
	if _, err := fcm.ParseAPIGeneration(string(c.APIVersion)); err != nil {
		return fmt.Errorf("api_version: %w", err)
	}

	var errs []error
	for _, f := range c.requiredFields() {
		if !f.set {
			errs = append(errs, fmt.Errorf("%w: %s is required for %s (set via YAML or %s env var)",
				fcm.ErrConfiguration, f.name, c.APIVersion, f.envVar))
		}
	}
	if c.Proxy.URL != "" && !strings.Contains(c.Proxy.URL, "://") {
		errs = append(errs, fmt.Errorf("%w: proxy url %q has no scheme", fcm.ErrConfiguration, c.Proxy.URL))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: redis addr is required when redis is enabled", fcm.ErrConfiguration))
	}
	return errors.Join(errs...)
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("FCM_API_VERSION"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_API_VERSION", "source", "env")
		cfg.APIVersion = fcm.APIGeneration(val)
	}
	if val := os.Getenv("FCM_SERVER_KEY"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_SERVER_KEY", "source", "env")
		cfg.ServerKey = val
	}
	if val := os.Getenv("FCM_SENDER_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_SENDER_ID", "source", "env")
		cfg.SenderID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		logger.Debug("Overriding config value", "key", "GOOGLE_APPLICATION_CREDENTIALS", "source", "env")
		cfg.ServiceAccountFile = val
	}
	if val := os.Getenv("FCM_PROXY_URL"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_PROXY_URL", "source", "env")
		cfg.Proxy.URL = val
	}

	// Redis Overrides
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = db
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		enabled, _ := strconv.ParseBool(val)
		cfg.Redis.Enabled = enabled
	}

	if cfg.APIVersion == "" {
		cfg.APIVersion = fcm.V1
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Configuration finalized and validated successfully", "api_version", cfg.APIVersion)
	return cfg, nil
}
