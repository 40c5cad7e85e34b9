package fcm

import "time"

// Outcome is the normalized result category of a call.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure"
	OutcomeFailure        Outcome = "failure"
)

// ErrorKind classifies why a call failed.
type ErrorKind string

const (
	// KindTransport means no response was received at all.
	KindTransport ErrorKind = "transport"
	// KindAuthentication means the provider rejected the credentials (401/403).
	KindAuthentication ErrorKind = "authentication"
	// KindProvider means the provider refused the request with an error body.
	KindProvider ErrorKind = "provider"
	// KindUnavailable means the provider is overloaded or down (429/5xx).
	KindUnavailable ErrorKind = "unavailable"
	// KindMalformedResponse means the response body did not have the expected shape.
	KindMalformedResponse ErrorKind = "malformed_response"
)

// ProviderError carries the provider's failure details verbatim.
type ProviderError struct {
	Kind ErrorKind
	// Code is the provider error code ("InvalidRegistration", "UNREGISTERED", ...).
	Code string
	// Status is the v1 canonical status ("INVALID_ARGUMENT", ...). Empty for legacy.
	Status  string
	Message string
}

// ItemResult is the outcome for one token of a multi-token operation.
type ItemResult struct {
	Token     string
	MessageID string
	// CanonicalToken is the legacy registration_id replacing a stale token.
	CanonicalToken string
	Error          string
}

// Success reports whether the item was accepted.
func (r ItemResult) Success() bool { return r.Error == "" }

// Result is the normalized response of a single call. Parsers build it once;
// callers should treat it as read-only.
type Result struct {
	Outcome    Outcome
	StatusCode int

	// MessageID is the provider-assigned id of a sent message.
	MessageID string
	// NotificationKey is the device group key returned by group management.
	NotificationKey string
	// Tokens holds the tokens accepted by a multi-token operation.
	Tokens []string
	// Items holds per-token results where the provider reports them.
	Items []ItemResult
	// SuccessCount and FailureCount mirror the provider counters when present.
	SuccessCount int
	FailureCount int

	// Error is set for Failure and, where the provider gives one, PartialFailure.
	Error *ProviderError
	// RetryAfter is the provider's Retry-After hint. This package never retries.
	RetryAfter time.Duration
}

// IsSuccess reports whether the whole call succeeded.
func (r *Result) IsSuccess() bool { return r != nil && r.Outcome == OutcomeSuccess }

// FailedTokens returns the tokens reported as failed.
func (r *Result) FailedTokens() []string {
	if r == nil {
		return nil
	}
	var failed []string
	for _, item := range r.Items {
		if !item.Success() {
			failed = append(failed, item.Token)
		}
	}
	return failed
}

// Failure builds a failure result.
func Failure(status int, kind ErrorKind, code, message string) *Result {
	return &Result{
		Outcome:    OutcomeFailure,
		StatusCode: status,
		Error:      &ProviderError{Kind: kind, Code: code, Message: message},
	}
}

// TransportFailure is the result every parser yields when no response was received.
func TransportFailure() *Result {
	return Failure(0, KindTransport, "", "no response received from provider")
}
