package options

import (
	"maps"
)

// V1MessageBuilder builds the "message" object of the HTTP v1 send endpoint.
type V1MessageBuilder struct {
	message
}

func NewV1MessageBuilder() *V1MessageBuilder {
	return &V1MessageBuilder{}
}

// Build emits the v1 message keyed by the target kind. The validate_only flag
// is not part of the message; the request places it beside the message.
func (b *V1MessageBuilder) Build() (map[string]any, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	out := map[string]any{string(b.targetKind): b.target}
	if len(b.data) > 0 {
		out["data"] = maps.Clone(b.data)
	}
	if b.notification != nil {
		out["notification"] = b.notificationMap()
	}
	if b.android != nil {
		out["android"] = b.android
	}
	if b.apns != nil {
		out["apns"] = b.apns
	}
	if b.webpush != nil {
		out["webpush"] = b.webpush
	}
	return out, nil
}
