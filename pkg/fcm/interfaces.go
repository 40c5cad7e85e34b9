package fcm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Authorization is the credential material a Request is constructed with.
// It is a value: handing a copy to a Request never aliases a cached token.
type Authorization struct {
	// Scheme is "Bearer" for OAuth2 access tokens or "key" for legacy server keys.
	Scheme string `json:"scheme"`
	Token  string `json:"token"`
	// ProjectID is the Firebase project (v1) or sender id (legacy).
	ProjectID string    `json:"project_id"`
	Expiry    time.Time `json:"expiry"`
}

const (
	SchemeBearer    = "Bearer"
	SchemeServerKey = "key"
)

// HeaderValue renders the Authorization header value.
func (a Authorization) HeaderValue() string {
	if a.Scheme == SchemeServerKey {
		return "key=" + a.Token
	}
	return fmt.Sprintf("%s %s", a.Scheme, a.Token)
}

// Valid reports whether the token is set and not expired.
func (a Authorization) Valid(now time.Time) bool {
	if a.Token == "" {
		return false
	}
	return a.Expiry.IsZero() || now.Before(a.Expiry)
}

// Authorizer turns credential material into request authorization.
// Implementations must be safe for concurrent use.
type Authorizer interface {
	// Authorize returns authorization for the given OAuth2 scope.
	// Failures wrap ErrAuthorization.
	Authorize(ctx context.Context, scope string) (*Authorization, error)
}

// ProxyOptions apply to a single call only.
type ProxyOptions struct {
	URL     string
	Timeout time.Duration
	// FollowRedirects is false for proxied calls.
	FollowRedirects bool
}

// HTTPRequest is what a Request hands to the Transport.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Proxy   *ProxyOptions
}

// RawResponse is the transport-level response given to a parser.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs one HTTP exchange. A non-2xx status is not an error: it is
// returned as a RawResponse. An error means no response was received.
type Transport interface {
	Perform(ctx context.Context, req *HTTPRequest) (*RawResponse, error)
}
