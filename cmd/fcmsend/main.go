package main

import (
	"context"
	_ "embed"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/tinywideclouds/go-fcm-client/fcmclient"
	"github.com/tinywideclouds/go-fcm-client/fcmclient/config"
	"github.com/tinywideclouds/go-fcm-client/internal/metrics"
)

//go:embed local.yaml
var configFile []byte

func main() {
	var logLevel slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		logLevel = slog.LevelDebug
	case "warn", "WARN":
		logLevel = slog.LevelWarn
	case "error", "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})).With("service", "fcmsend")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Config Loading ---
	var yamlCfg config.YamlConfig
	if err := yaml.Unmarshal(configFile, &yamlCfg); err != nil {
		logger.Error("Failed to unmarshal embedded yaml config", "err", err)
		os.Exit(1)
	}
	baseCfg, err := config.NewConfigFromYaml(&yamlCfg, logger)
	if err != nil {
		logger.Error("Config mapping failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewRequestMetrics(reg)
	if err != nil {
		logger.Error("Metrics registration failed", "err", err)
		os.Exit(1)
	}

	// The client is created on first use so --help works without credentials.
	newClient := func(ctx context.Context) (*fcmclient.Client, error) {
		cfg, err := config.UpdateConfigWithEnvOverrides(baseCfg, logger)
		if err != nil {
			return nil, err
		}
		return fcmclient.NewClientFromConfig(ctx, cfg, logger, fcmclient.WithMetrics(m))
	}

	runErr := rootCommand(newClient).ExecuteContext(ctx)

	if gatewayURL := os.Getenv("FCM_PUSHGATEWAY_URL"); gatewayURL != "" {
		if err := pushMetrics(ctx, gatewayURL, reg); err != nil {
			logger.Warn("Metrics push failed", "err", err)
		}
	}

	if runErr != nil {
		logger.Error("Command failed", "err", runErr)
		os.Exit(1)
	}
}
