package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	pushJob     = "fcmsend"
	pushTimeout = 5 * time.Second
)

// pushMetrics sends the request metrics of this run to a Pushgateway. A
// one-shot command exits before any scrape could reach it.
func pushMetrics(ctx context.Context, gatewayURL string, g prometheus.Gatherer) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	if err := push.New(gatewayURL, pushJob).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
