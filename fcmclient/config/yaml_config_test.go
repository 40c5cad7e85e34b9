package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-fcm-client/fcmclient/config"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
	"gopkg.in/yaml.v3"
)

func TestNewConfigFromYaml(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - maps all fields correctly", func(t *testing.T) {
		raw := []byte(`
api_version: legacy_api
server_key: yaml-key
sender_id: "1234"
proxy:
  url: http://proxy:3128
  timeout: 20s
redis:
  addr: localhost:6379
  db: 1
  enabled: true
`)
		var yamlCfg config.YamlConfig
		require.NoError(t, yaml.Unmarshal(raw, &yamlCfg))

		cfg, err := config.NewConfigFromYaml(&yamlCfg, logger)

		require.NoError(t, err)
		assert.Equal(t, fcm.Legacy, cfg.APIVersion)
		assert.Equal(t, "yaml-key", cfg.ServerKey)
		assert.Equal(t, "1234", cfg.SenderID)
		assert.Equal(t, "http://proxy:3128", cfg.Proxy.URL)
		assert.Equal(t, 20*time.Second, cfg.Proxy.Timeout)
		assert.Equal(t, config.RedisConfig{Enabled: true, Addr: "localhost:6379", DB: 1}, cfg.Redis)
	})

	t.Run("Failure - bad proxy timeout", func(t *testing.T) {
		_, err := config.NewConfigFromYaml(&config.YamlConfig{
			ProxyConfig: config.YamlProxyConfig{Timeout: "fifty"},
		}, logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
	})
}
