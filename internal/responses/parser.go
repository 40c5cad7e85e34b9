// Package responses normalizes the provider responses of every
// (api version, intent) pair into fcm.Result values.
package responses

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// Parser turns one raw response into a normalized result. A nil response
// means the transport received nothing and always yields a transport failure.
type Parser interface {
	HandleResponse(resp *fcm.RawResponse) *fcm.Result
}

// TokenAware parsers align per-item results with the tokens that were sent.
type TokenAware interface {
	SetTokens(tokens []string)
}

var (
	_ Parser     = (*V1TokenParser)(nil)
	_ Parser     = (*LegacyTokenParser)(nil)
	_ Parser     = (*LegacyTopicParser)(nil)
	_ Parser     = (*LegacyGroupParser)(nil)
	_ Parser     = (*GroupManagementParser)(nil)
	_ Parser     = (*TopicSubscriptionParser)(nil)
	_ TokenAware = (*TopicSubscriptionParser)(nil)
)

const maxMessageLen = 512

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

func kindForStatus(code int) fcm.ErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fcm.KindAuthentication
	case code == http.StatusTooManyRequests || code >= 500:
		return fcm.KindUnavailable
	}
	return fcm.KindProvider
}

// statusFailure classifies a response from its status code alone.
func statusFailure(resp *fcm.RawResponse) *fcm.Result {
	res := fcm.Failure(resp.StatusCode, kindForStatus(resp.StatusCode), http.StatusText(resp.StatusCode), bodyMessage(resp.Body))
	res.RetryAfter = retryAfter(resp.Header)
	return res
}

func malformed(resp *fcm.RawResponse, reason string) *fcm.Result {
	return fcm.Failure(resp.StatusCode, fcm.KindMalformedResponse, "", reason+": "+bodyMessage(resp.Body))
}

// legacyFailure handles the legacy {"error": "..."} body shared by the legacy
// endpoints and the IID service, falling back to the status code.
func legacyFailure(resp *fcm.RawResponse) *fcm.Result {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Error == "" {
		return statusFailure(resp)
	}
	res := fcm.Failure(resp.StatusCode, kindForStatus(resp.StatusCode), body.Error, body.Error)
	res.RetryAfter = retryAfter(resp.Header)
	return res
}

// retryAfter reads a Retry-After header given either in seconds or as an HTTP date.
func retryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func bodyMessage(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
