package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

type YamlRedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

type YamlProxyConfig struct {
	URL             string `yaml:"url"`
	Timeout         string `yaml:"timeout"`
	FollowRedirects bool   `yaml:"follow_redirects"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	APIVersion         string          `yaml:"api_version"`
	ServerKey          string          `yaml:"server_key"`
	SenderID           string          `yaml:"sender_id"`
	ServiceAccountFile string          `yaml:"service_account_file"`
	ProxyConfig        YamlProxyConfig `yaml:"proxy"`
	RedisConfig        YamlRedisConfig `yaml:"redis"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		APIVersion:         fcm.APIGeneration(baseCfg.APIVersion),
		ServerKey:          baseCfg.ServerKey,
		SenderID:           baseCfg.SenderID,
		ServiceAccountFile: baseCfg.ServiceAccountFile,
		Proxy: ProxyConfig{
			URL:             baseCfg.ProxyConfig.URL,
			FollowRedirects: baseCfg.ProxyConfig.FollowRedirects,
		},
		Redis: RedisConfig{
			Addr:     baseCfg.RedisConfig.Addr,
			Password: baseCfg.RedisConfig.Password,
			DB:       baseCfg.RedisConfig.DB,
			Enabled:  baseCfg.RedisConfig.Enabled,
		},
	}

	if baseCfg.ProxyConfig.Timeout != "" {
		timeout, err := time.ParseDuration(baseCfg.ProxyConfig.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: proxy timeout: %v", fcm.ErrConfiguration, err)
		}
		cfg.Proxy.Timeout = timeout
	}

	logger.Debug("YAML config mapping complete",
		"api_version", cfg.APIVersion,
		"proxy", cfg.Proxy.URL != "",
		"redis", cfg.Redis.Enabled,
	)

	return cfg, nil
}
