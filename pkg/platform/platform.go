// Package platform turns typed Android, APNs and Web Push settings into the
// opaque configuration blocks accepted by a message request.
package platform

import (
	"encoding/json"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// AndroidConfig renders cfg in its FCM wire form.
func AndroidConfig(cfg *messaging.AndroidConfig) (map[string]any, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: android config is nil", fcm.ErrInvalidData)
	}
	return toBlock("android", cfg)
}

// WebpushConfig renders cfg in its FCM wire form.
func WebpushConfig(cfg *messaging.WebpushConfig) (map[string]any, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: webpush config is nil", fcm.ErrInvalidData)
	}
	return toBlock("webpush", cfg)
}

// toBlock round-trips v through its JSON marshaller so the SDK's own wire
// conventions (durations, custom data) are preserved.
func toBlock(name string, v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s config: %v", fcm.ErrInvalidData, name, err)
	}
	var block map[string]any
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, fmt.Errorf("%w: %s config is not an object: %v", fcm.ErrInvalidData, name, err)
	}
	return block, nil
}
