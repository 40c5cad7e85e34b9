package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns the value or an error if not found.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores the value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes the key.
	Del(ctx context.Context, key string) error
}

// DefaultExpirySkew is subtracted from a token's expiry when caching it.
const DefaultExpirySkew = time.Minute

// CachedAuthorizer is a Decorator that shares issued tokens across processes
// through a cache. Cached entries are value copies; a token already handed to
// a request is never modified.
type CachedAuthorizer struct {
	inner     fcm.Authorizer
	cache     CacheClient
	namespace string
	skew      time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewCachedAuthorizer decorates inner. namespace separates credentials sharing
// one cache (e.g. the service account email).
func NewCachedAuthorizer(inner fcm.Authorizer, cache CacheClient, namespace string, logger *slog.Logger) *CachedAuthorizer {
	return &CachedAuthorizer{
		inner:     inner,
		cache:     cache,
		namespace: namespace,
		skew:      DefaultExpirySkew,
		now:       time.Now,
		logger:    logger.With("component", "CachedAuthorizer"),
	}
}

func (c *CachedAuthorizer) Authorize(ctx context.Context, scope string) (*fcm.Authorization, error) {
	key := c.cacheKey(scope)

	// 1. Try Cache
	var cached fcm.Authorization
	if err := c.cache.Get(ctx, key, &cached); err == nil && cached.Valid(c.now().Add(c.skew)) {
		return &cached, nil
	}

	// 2. Fallback to the real authorizer
	fresh, err := c.inner.Authorize(ctx, scope)
	if err != nil {
		return nil, err
	}

	// 3. Populate Cache. Errors are ignored; caching is an optimization.
	if ttl := c.ttl(*fresh); ttl > 0 {
		if err := c.cache.Set(ctx, key, fresh, ttl); err != nil {
			c.logger.Debug("Failed to cache token", "scope", scope, "err", err)
		}
	}
	return fresh, nil
}

// Invalidate drops the cached token, e.g. after the provider rejected it.
func (c *CachedAuthorizer) Invalidate(ctx context.Context, scope string) error {
	return c.cache.Del(ctx, c.cacheKey(scope))
}

func (c *CachedAuthorizer) ttl(a fcm.Authorization) time.Duration {
	if a.Expiry.IsZero() {
		return 0
	}
	return a.Expiry.Sub(c.now()) - c.skew
}

func (c *CachedAuthorizer) cacheKey(scope string) string {
	return fmt.Sprintf("fcm:auth:%s:%s", c.namespace, scope)
}
