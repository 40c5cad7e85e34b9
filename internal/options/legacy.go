package options

import (
	"maps"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// LegacyMessageBuilder builds the flat legacy HTTP payload used for token,
// topic and device group sends.
type LegacyMessageBuilder struct {
	message
}

func NewLegacyMessageBuilder() *LegacyMessageBuilder {
	return &LegacyMessageBuilder{}
}

// Build emits the legacy payload. Legacy has no nested platform objects, so
// platform blocks are merged at the top level; the core keys always win.
func (b *LegacyMessageBuilder) Build() (map[string]any, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	out := make(map[string]any)
	for _, block := range []map[string]any{b.android, b.apns, b.webpush} {
		maps.Copy(out, block)
	}
	delete(out, "to")
	delete(out, "condition")
	delete(out, "dry_run")

	switch b.targetKind {
	case fcm.TargetToken:
		out["to"] = b.target
	case fcm.TargetTopic:
		out["to"] = fcm.TopicsPath + b.target
	case fcm.TargetCondition:
		out["condition"] = b.target
	}

	if len(b.data) > 0 {
		out["data"] = maps.Clone(b.data)
	}
	if b.notification != nil {
		out["notification"] = b.notificationMap()
	}
	if b.validateOnly {
		out["dry_run"] = true
	}
	return out, nil
}
