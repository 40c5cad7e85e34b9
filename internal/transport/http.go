// Package transport performs the single HTTP exchange behind every FCM request.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

const (
	// DefaultTimeout bounds unproxied calls when no client is supplied.
	DefaultTimeout = 30 * time.Second
	// maxResponseBody caps how much of a provider response is read.
	maxResponseBody = 1 << 20
)

// HTTPTransport implements fcm.Transport on net/http.
type HTTPTransport struct {
	client *http.Client
	logger *slog.Logger

	mu      sync.Mutex
	proxied map[string]http.RoundTripper
}

// NewHTTPTransport uses client for every call; nil means a client with DefaultTimeout.
func NewHTTPTransport(client *http.Client, logger *slog.Logger) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPTransport{
		client:  client,
		logger:  logger.With("component", "HTTPTransport"),
		proxied: make(map[string]http.RoundTripper),
	}
}

// Perform sends req. Any status code is returned as a RawResponse; an error
// means the exchange failed before a response arrived.
func (t *HTTPTransport) Perform(ctx context.Context, req *fcm.HTTPRequest) (*fcm.RawResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("build http request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	client := t.client
	if req.Proxy != nil {
		client, err = t.proxyClient(req.Proxy)
		if err != nil {
			return nil, err
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fcm transport failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read fcm response body: %w", err)
	}

	t.logger.Debug("FCM call completed", "url", req.URL, "status", resp.StatusCode)
	return &fcm.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// proxyClient derives a client for one proxied call. Proxied round trippers are
// kept per proxy URL so connections are pooled across calls.
func (t *HTTPTransport) proxyClient(p *fcm.ProxyOptions) (*http.Client, error) {
	proxyURL, err := url.Parse(p.URL)
	if err != nil || proxyURL.Host == "" {
		return nil, fmt.Errorf("%w: invalid proxy url %q", fcm.ErrConfiguration, p.URL)
	}

	c := &http.Client{
		Transport: t.proxiedRoundTripper(proxyURL),
		Timeout:   p.Timeout,
		Jar:       t.client.Jar,
	}
	if !p.FollowRedirects {
		c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return c, nil
}

func (t *HTTPTransport) proxiedRoundTripper(proxyURL *url.URL) http.RoundTripper {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := proxyURL.String()
	if rt, ok := t.proxied[key]; ok {
		return rt
	}

	var rt http.RoundTripper
	switch base := t.client.Transport.(type) {
	case nil:
		clone := http.DefaultTransport.(*http.Transport).Clone()
		clone.Proxy = http.ProxyURL(proxyURL)
		rt = clone
	case *http.Transport:
		clone := base.Clone()
		clone.Proxy = http.ProxyURL(proxyURL)
		rt = clone
	default:
		// Custom round trippers own their routing.
		rt = base
	}
	t.proxied[key] = rt
	return rt
}
