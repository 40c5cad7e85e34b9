package config_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-fcm-client/fcmclient/config"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clearEnv blanks every override so a developer's shell cannot leak into the test.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"FCM_API_VERSION", "FCM_SERVER_KEY", "FCM_SENDER_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"FCM_PROXY_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestUpdateConfigWithEnvOverrides(t *testing.T) {
	logger := newTestLogger()

	baseConfig := func() *config.Config {
		return &config.Config{
			APIVersion: fcm.Legacy,
			ServerKey:  "base-key",
			SenderID:   "base-sender",
		}
	}

	t.Run("Success - All overrides applied", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FCM_API_VERSION", "api_v1")
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
		t.Setenv("FCM_PROXY_URL", "http://proxy:3128")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_DB", "2")

		finalCfg, err := config.UpdateConfigWithEnvOverrides(baseConfig(), logger)
		require.NoError(t, err)

		assert.Equal(t, fcm.V1, finalCfg.APIVersion)
		assert.Equal(t, "/secrets/sa.json", finalCfg.ServiceAccountFile)
		assert.Equal(t, "http://proxy:3128", finalCfg.Proxy.URL)
		assert.True(t, finalCfg.Redis.Enabled)
		assert.Equal(t, 2, finalCfg.Redis.DB)
	})

	t.Run("Success - Defaults preserved", func(t *testing.T) {
		clearEnv(t)
		finalCfg, err := config.UpdateConfigWithEnvOverrides(baseConfig(), logger)
		require.NoError(t, err)

		assert.Equal(t, fcm.Legacy, finalCfg.APIVersion)
		assert.Equal(t, "base-key", finalCfg.ServerKey)
		assert.Nil(t, finalCfg.ProxyOptions())
	})

	t.Run("Validation Failure - Unknown api version", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FCM_API_VERSION", "v2")
		_, err := config.UpdateConfigWithEnvOverrides(baseConfig(), logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Legacy reports every missing field", func(t *testing.T) {
		err := (&config.Config{APIVersion: fcm.Legacy}).Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
		assert.Contains(t, err.Error(), "server_key")
		assert.Contains(t, err.Error(), "sender_id")
	})

	t.Run("V1 accepts inline service account json", func(t *testing.T) {
		cfg := &config.Config{APIVersion: fcm.V1, ServiceAccountJSON: []byte(`{}`)}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("V1 without credentials fails", func(t *testing.T) {
		err := (&config.Config{APIVersion: fcm.V1}).Validate()
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
		assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
	})

	t.Run("Redis enabled without addr fails", func(t *testing.T) {
		cfg := &config.Config{APIVersion: fcm.V1, ServiceAccountFile: "sa.json", Redis: config.RedisConfig{Enabled: true}}
		assert.ErrorIs(t, cfg.Validate(), fcm.ErrConfiguration)
	})

	t.Run("Proxy url without scheme fails", func(t *testing.T) {
		cfg := &config.Config{APIVersion: fcm.V1, ServiceAccountFile: "sa.json", Proxy: config.ProxyConfig{URL: "proxy:3128"}}
		assert.ErrorIs(t, cfg.Validate(), fcm.ErrConfiguration)
	})
}

func TestConfig_ProxyOptions(t *testing.T) {
	cfg := &config.Config{Proxy: config.ProxyConfig{URL: "http://proxy:3128", Timeout: 5 * time.Minute}}

	opts := cfg.ProxyOptions()

	require.NotNil(t, opts)
	assert.Equal(t, config.DefaultProxyTimeout, opts.Timeout)
	assert.False(t, opts.FollowRedirects)

	cfg.Proxy.Timeout = 10 * time.Second
	assert.Equal(t, 10*time.Second, cfg.ProxyOptions().Timeout)
}
