// Package fcmclient creates and sends Firebase Cloud Messaging requests against
// the legacy and HTTP v1 APIs.
package fcmclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tinywideclouds/go-fcm-client/fcmclient/config"
	"github.com/tinywideclouds/go-fcm-client/internal/auth"
	"github.com/tinywideclouds/go-fcm-client/internal/metrics"
	"github.com/tinywideclouds/go-fcm-client/internal/options"
	"github.com/tinywideclouds/go-fcm-client/internal/responses"
	"github.com/tinywideclouds/go-fcm-client/internal/transport"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

const tracerName = "github.com/tinywideclouds/go-fcm-client/fcmclient"

type clientOptions struct {
	metrics    *metrics.RequestMetrics
	tracer     trace.Tracer
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*clientOptions)

// WithMetrics records every Send on m.
func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *clientOptions) { o.tracer = t }
}

// WithHTTPClient sets the HTTP client used by NewClientFromConfig.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// Client is the configuration surface. It is safe for concurrent use; every
// Request it creates is independent.
type Client struct {
	cfg        *config.Config
	authorizer fcm.Authorizer
	transport  fcm.Transport
	opts       clientOptions
	closers    []io.Closer
	logger     *slog.Logger
}

// NewClient validates its collaborators eagerly.
func NewClient(cfg *config.Config, authorizer fcm.Authorizer, tr fcm.Transport, logger *slog.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", fcm.ErrConfiguration)
	}
	if _, err := fcm.ParseAPIGeneration(string(cfg.APIVersion)); err != nil {
		return nil, fmt.Errorf("api_version: %w", err)
	}
	if authorizer == nil {
		return nil, fmt.Errorf("%w: authorizer is required", fcm.ErrConfiguration)
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: transport is required", fcm.ErrConfiguration)
	}

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	return &Client{
		cfg:        cfg,
		authorizer: authorizer,
		transport:  tr,
		opts:       o,
		logger:     logger.With("component", "FCMClient", "api_version", string(cfg.APIVersion)),
	}, nil
}

// NewClientFromConfig wires the default collaborators for cfg: a server key
// authorizer for legacy, a service account authorizer for v1 (shared through
// Redis when enabled), and the net/http transport.
func NewClientFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		authorizer fcm.Authorizer
		closers    []io.Closer
	)
	switch cfg.APIVersion {
	case fcm.Legacy:
		a, err := auth.NewServerKeyAuthorizer(cfg.ServerKey, cfg.SenderID)
		if err != nil {
			return nil, err
		}
		authorizer = a
	case fcm.V1:
		creds := cfg.ServiceAccountJSON
		if len(creds) == 0 {
			data, err := os.ReadFile(cfg.ServiceAccountFile)
			if err != nil {
				return nil, fmt.Errorf("%w: read service account file: %v", fcm.ErrConfiguration, err)
			}
			creds = data
		}
		sa, err := auth.NewServiceAccountAuthorizer(creds, logger)
		if err != nil {
			return nil, err
		}
		authorizer = sa

		if cfg.Redis.Enabled {
			logger.Info("Initializing Redis token cache...", "addr", cfg.Redis.Addr)
			rc, err := auth.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return nil, err
			}
			authorizer = auth.NewCachedAuthorizer(sa, rc, sa.Identity(), logger)
			closers = append(closers, rc)
		}
	}

	c, err := NewClient(cfg, authorizer, transport.NewHTTPTransport(o.httpClient, logger), logger, opts...)
	if err != nil {
		return nil, errors.Join(err, closeAll(closers))
	}
	c.closers = closers
	return c, nil
}

// Close releases resources created by NewClientFromConfig.
func (c *Client) Close() error {
	return closeAll(c.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, cl := range closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// APIVersion returns the configured generation.
func (c *Client) APIVersion() fcm.APIGeneration { return c.cfg.APIVersion }

// CreateRequest selects the builder and parser for intent and authorizes the
// request. Unsupported combinations fail here, before any network call.
func (c *Client) CreateRequest(ctx context.Context, intent fcm.Intent) (*Request, error) {
	gen := c.cfg.APIVersion

	builder, err := options.Select(intent, gen)
	if err != nil {
		return nil, err
	}
	parser, err := responses.Select(intent, gen)
	if err != nil {
		return nil, err
	}

	authz, err := c.authorizer.Authorize(ctx, auth.MessagingScope)
	if err != nil {
		if !errors.Is(err, fcm.ErrAuthorization) {
			err = fmt.Errorf("%w: %w", fcm.ErrAuthorization, err)
		}
		return nil, fmt.Errorf("authorize %s request: %w", intent, err)
	}
	if err := checkAuthorization(gen, authz, time.Now()); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	return &Request{
		id:         id,
		intent:     intent,
		generation: gen,
		authz:      *authz,
		builder:    builder,
		parser:     parser,
		endpoint:   newEndpoint(gen, *authz),
		transport:  c.transport,
		proxy:      c.cfg.ProxyOptions(),
		metrics:    c.opts.metrics,
		tracer:     c.opts.tracer,
		logger:     c.logger.With("request_id", id, "intent", string(intent)),
	}, nil
}

// checkAuthorization enforces the credential material each generation needs:
// a bearer token and project id for v1, a server key and sender id for legacy.
func checkAuthorization(gen fcm.APIGeneration, a *fcm.Authorization, now time.Time) error {
	if a == nil || a.Token == "" {
		return fmt.Errorf("%w: authorizer returned no token", fcm.ErrConfiguration)
	}
	if a.ProjectID == "" {
		name := "project id"
		if gen == fcm.Legacy {
			name = "sender id"
		}
		return fmt.Errorf("%w: %s is required for %s", fcm.ErrConfiguration, name, gen)
	}
	if !a.Valid(now) {
		return fmt.Errorf("%w: token expired at %s", fcm.ErrAuthorization, a.Expiry.Format(time.RFC3339))
	}
	return nil
}
