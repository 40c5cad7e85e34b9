package fcmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tinywideclouds/go-fcm-client/internal/metrics"
	"github.com/tinywideclouds/go-fcm-client/internal/options"
	"github.com/tinywideclouds/go-fcm-client/internal/responses"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// State is the lifecycle position of a Request.
type State int

const (
	StateConstructed State = iota
	StateConfiguring
	StateSent
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateConfiguring:
		return "configuring"
	case StateSent:
		return "sent"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Request performs one FCM call for a single intent. Configuration methods
// chain; the first configuration error is kept and returned by Err, Options
// and Send, so a misconfigured request never reaches the network.
//
// A Request is not safe for concurrent use and is meant to be sent once.
// Sending it again performs a second call whose result is unspecified.
type Request struct {
	id         string
	intent     fcm.Intent
	generation fcm.APIGeneration
	authz      fcm.Authorization

	builder  options.OptionsBuilder
	parser   responses.Parser
	endpoint endpoint

	transport fcm.Transport
	proxy     *fcm.ProxyOptions
	metrics   *metrics.RequestMetrics
	tracer    trace.Tracer
	logger    *slog.Logger

	state State
	err   error
}

func (r *Request) ID() string { return r.id }

func (r *Request) Intent() fcm.Intent { return r.intent }

func (r *Request) APIVersion() fcm.APIGeneration { return r.generation }

func (r *Request) State() State { return r.state }

// Err returns the first configuration error, if any.
func (r *Request) Err() error { return r.err }

func (r *Request) configure(op string, fn func() error) *Request {
	if r.err != nil {
		return r
	}
	if r.state > StateConfiguring {
		r.err = fmt.Errorf("%w: %s after the request was sent", fcm.ErrUnsupportedOperation, op)
		return r
	}
	r.state = StateConfiguring
	if err := fn(); err != nil {
		r.err = fmt.Errorf("%s: %w", op, err)
		r.logger.Debug("Request configuration rejected", "op", op, "err", err)
	}
	return r
}

func (r *Request) unsupported(op string) error {
	return fmt.Errorf("%w: %s is not available for %s on %s", fcm.ErrUnsupportedOperation, op, r.intent, r.generation)
}

func (r *Request) withMessage(op string, fn func(options.MessageBuilder) error) *Request {
	return r.configure(op, func() error {
		b, ok := r.builder.(options.MessageBuilder)
		if !ok {
			return r.unsupported(op)
		}
		return fn(b)
	})
}

func (r *Request) withSubscription(op string, fn func(*options.SubscriptionBuilder) error) *Request {
	return r.configure(op, func() error {
		b, ok := r.builder.(*options.SubscriptionBuilder)
		if !ok {
			return r.unsupported(op)
		}
		return fn(b)
	})
}

func (r *Request) withGroup(op string, fn func(*options.GroupBuilder) error) *Request {
	return r.configure(op, func() error {
		b, ok := r.builder.(*options.GroupBuilder)
		if !ok {
			return r.unsupported(op)
		}
		return fn(b)
	})
}

// SetTarget addresses a message to a token, topic or condition. For device
// group sends the notification key is set with the token kind.
func (r *Request) SetTarget(kind fcm.TargetKind, value string) *Request {
	return r.withMessage("SetTarget", func(b options.MessageBuilder) error {
		return b.SetTarget(kind, value)
	})
}

func (r *Request) SetData(data map[string]any) *Request {
	return r.withMessage("SetData", func(b options.MessageBuilder) error {
		return b.SetData(data)
	})
}

func (r *Request) SetNotification(title, body string) *Request {
	return r.withMessage("SetNotification", func(b options.MessageBuilder) error {
		return b.SetNotification(title, body)
	})
}

func (r *Request) SetAndroidConfig(cfg map[string]any) *Request {
	return r.withMessage("SetAndroidConfig", func(b options.MessageBuilder) error {
		return b.SetAndroidConfig(cfg)
	})
}

func (r *Request) SetApnsConfig(cfg map[string]any) *Request {
	return r.withMessage("SetApnsConfig", func(b options.MessageBuilder) error {
		return b.SetApnsConfig(cfg)
	})
}

func (r *Request) SetWebPushConfig(cfg map[string]any) *Request {
	return r.withMessage("SetWebPushConfig", func(b options.MessageBuilder) error {
		return b.SetWebPushConfig(cfg)
	})
}

// ValidateOnly asks the provider to validate the message without delivering it.
func (r *Request) ValidateOnly(validateOnly bool) *Request {
	return r.withMessage("ValidateOnly", func(b options.MessageBuilder) error {
		b.SetValidateOnly(validateOnly)
		return nil
	})
}

func (r *Request) SetTopic(topic string) *Request {
	return r.withSubscription("SetTopic", func(b *options.SubscriptionBuilder) error {
		return b.SetTopic(topic)
	})
}

// Subscribe selects batchAdd. It is the default.
func (r *Request) Subscribe() *Request {
	return r.withSubscription("Subscribe", func(b *options.SubscriptionBuilder) error {
		b.SetSubscribe(true)
		return nil
	})
}

// Unsubscribe selects batchRemove.
func (r *Request) Unsubscribe() *Request {
	return r.withSubscription("Unsubscribe", func(b *options.SubscriptionBuilder) error {
		b.SetSubscribe(false)
		return nil
	})
}

// SetTokens sets the registration tokens of a subscription or device group call.
func (r *Request) SetTokens(tokens ...string) *Request {
	return r.configure("SetTokens", func() error {
		switch b := r.builder.(type) {
		case *options.SubscriptionBuilder:
			return b.SetTokens(tokens...)
		case *options.GroupBuilder:
			return b.SetTokens(tokens...)
		}
		return r.unsupported("SetTokens")
	})
}

func (r *Request) SetGroupOperation(op fcm.GroupOperation) *Request {
	return r.withGroup("SetGroupOperation", func(b *options.GroupBuilder) error {
		return b.SetOperation(op)
	})
}

func (r *Request) SetNotificationKeyName(name string) *Request {
	return r.withGroup("SetNotificationKeyName", func(b *options.GroupBuilder) error {
		return b.SetNotificationKeyName(name)
	})
}

func (r *Request) SetNotificationKey(key string) *Request {
	return r.withGroup("SetNotificationKey", func(b *options.GroupBuilder) error {
		return b.SetNotificationKey(key)
	})
}

// URL returns the endpoint the request is sent to.
func (r *Request) URL() string {
	switch b := r.builder.(type) {
	case *options.SubscriptionBuilder:
		if b.Subscribed() {
			return TopicAddSubscriptionURL
		}
		return TopicRemoveSubscriptionURL
	case *options.GroupBuilder:
		return LegacyGroupManagementURL
	}
	return r.endpoint.sendURL()
}

// Headers returns the HTTP headers of the call.
func (r *Request) Headers() map[string]string {
	h := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": r.authz.HeaderValue(),
	}
	maps.Copy(h, r.endpoint.extraHeaders(r.intent))
	return h
}

// Options returns the JSON body of the call.
func (r *Request) Options() (map[string]any, error) {
	if r.err != nil {
		return nil, r.err
	}
	switch b := r.builder.(type) {
	case *options.SubscriptionBuilder:
		tokens, err := b.Build()
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"to":                  fcm.TopicsPath + b.Topic(),
			"registration_tokens": tokens,
		}, nil
	case *options.GroupBuilder:
		return b.Build()
	case options.MessageBuilder:
		return r.endpoint.messageBody(b)
	}
	return nil, r.unsupported("Options")
}

// Send performs the call and returns the normalized result. Configuration and
// build errors are returned before any network call. Transport and provider
// failures are reported in the Result, never as an error.
func (r *Request) Send(ctx context.Context) (*fcm.Result, error) {
	body, err := r.Options()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request body: %v", fcm.ErrInvalidData, err)
	}
	if ta, ok := r.parser.(responses.TokenAware); ok {
		if tokens, ok := body["registration_tokens"].([]string); ok {
			ta.SetTokens(tokens)
		}
	}

	url := r.URL()
	ctx, span := r.tracer.Start(ctx, "fcm.Send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("fcm.api_version", string(r.generation)),
			attribute.String("fcm.intent", string(r.intent)),
			attribute.String("fcm.request_id", r.id),
			attribute.String("url.full", url),
		),
	)
	defer span.End()

	r.state = StateSent
	start := time.Now()

	resp, err := r.transport.Perform(ctx, &fcm.HTTPRequest{
		Method:  http.MethodPost,
		URL:     url,
		Headers: r.Headers(),
		Body:    payload,
		Proxy:   r.proxy,
	})
	if err != nil {
		r.logger.Error("FCM call failed before a response was received", "url", url, "err", err)
		span.RecordError(err)
		resp = nil
	} else if resp.StatusCode >= http.StatusBadRequest {
		r.logger.Warn("FCM call returned an error status", "url", url, "status", resp.StatusCode)
	}

	result := r.parser.HandleResponse(resp)
	elapsed := time.Since(start)

	r.state = StateCompleted
	if result.Outcome == fcm.OutcomeFailure {
		r.state = StateFailed
	}
	r.metrics.Observe(string(r.generation), string(r.intent), string(result.Outcome), elapsed)

	span.SetAttributes(
		attribute.Int("http.response.status_code", result.StatusCode),
		attribute.String("fcm.outcome", string(result.Outcome)),
	)
	if result.Error != nil {
		span.SetAttributes(attribute.String("fcm.error_kind", string(result.Error.Kind)))
		if result.Outcome == fcm.OutcomeFailure {
			span.SetStatus(otelcodes.Error, result.Error.Message)
		}
	}

	r.logger.Info("FCM request finished",
		"outcome", result.Outcome,
		"status", result.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}
