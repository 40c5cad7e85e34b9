// Package options holds the payload builders for every (api version, intent)
// pair and the selector that picks one.
package options

import (
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// OptionsBuilder is implemented by every builder variant.
type OptionsBuilder interface {
	// Validate reports ErrIncompleteBuild when required fields are missing.
	Validate() error
}

// MessageBuilder accumulates the content of a message-sending request.
type MessageBuilder interface {
	OptionsBuilder
	SetTarget(kind fcm.TargetKind, value string) error
	SetData(data map[string]any) error
	SetNotification(title, body string) error
	SetAndroidConfig(cfg map[string]any) error
	SetApnsConfig(cfg map[string]any) error
	SetWebPushConfig(cfg map[string]any) error
	SetValidateOnly(validateOnly bool)
	ValidateOnly() bool
	// Build returns the wire-shaped message.
	Build() (map[string]any, error)
}

// Compile-time interface checks.
var (
	_ MessageBuilder = (*LegacyMessageBuilder)(nil)
	_ MessageBuilder = (*V1MessageBuilder)(nil)
	_ OptionsBuilder = (*SubscriptionBuilder)(nil)
	_ OptionsBuilder = (*GroupBuilder)(nil)
)
