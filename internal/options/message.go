package options

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/spf13/cast"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

type notification struct {
	title string
	body  string
}

// message is the state shared by both message builder generations.
type message struct {
	targetKind   fcm.TargetKind
	target       string
	data         map[string]string
	notification *notification
	android      map[string]any
	apns         map[string]any
	webpush      map[string]any
	validateOnly bool
}

// SetTarget sets the token, topic or condition the message is addressed to.
// Re-setting the same kind replaces the value; a different kind is rejected.
func (m *message) SetTarget(kind fcm.TargetKind, value string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown target kind %q", fcm.ErrInvalidTarget, kind)
	}
	if kind == fcm.TargetTopic {
		value = strings.TrimPrefix(value, fcm.TopicsPath)
	}
	if value == "" {
		return fmt.Errorf("%w: %s value is empty", fcm.ErrInvalidTarget, kind)
	}
	if m.targetKind != "" && m.targetKind != kind {
		return fmt.Errorf("%w: target already set as %s, cannot set %s", fcm.ErrInvalidTarget, m.targetKind, kind)
	}
	m.targetKind = kind
	m.target = value
	return nil
}

// SetData replaces the data payload. Every value is coerced to a string since
// FCM only carries string data values.
func (m *message) SetData(data map[string]any) error {
	coerced := make(map[string]string, len(data))
	for k, v := range data {
		if isNil(v) {
			return fmt.Errorf("%w: data value for %q is nil", fcm.ErrInvalidData, k)
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("%w: data value for %q is a %T", fcm.ErrInvalidData, k, v)
		}
		coerced[k] = s
	}
	m.data = coerced
	return nil
}

// isNil reports untyped nils and typed nil pointers, which cast would
// otherwise coerce to "".
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (m *message) SetNotification(title, body string) error {
	if title == "" || body == "" {
		return fmt.Errorf("%w: notification title and body are required", fcm.ErrInvalidData)
	}
	m.notification = &notification{title: title, body: body}
	return nil
}

func (m *message) SetAndroidConfig(cfg map[string]any) error {
	block, err := platformBlock("android", cfg)
	if err != nil {
		return err
	}
	m.android = block
	return nil
}

func (m *message) SetApnsConfig(cfg map[string]any) error {
	block, err := platformBlock("apns", cfg)
	if err != nil {
		return err
	}
	m.apns = block
	return nil
}

func (m *message) SetWebPushConfig(cfg map[string]any) error {
	block, err := platformBlock("webpush", cfg)
	if err != nil {
		return err
	}
	m.webpush = block
	return nil
}

func (m *message) SetValidateOnly(validateOnly bool) { m.validateOnly = validateOnly }

func (m *message) ValidateOnly() bool { return m.validateOnly }

func (m *message) Validate() error {
	if m.targetKind == "" {
		return fmt.Errorf("%w: a target (token, topic or condition) must be set", fcm.ErrIncompleteBuild)
	}
	return nil
}

func (m *message) notificationMap() map[string]string {
	return map[string]string{"title": m.notification.title, "body": m.notification.body}
}

// platformBlock accepts any map that encodes as JSON; the content is opaque.
func platformBlock(name string, cfg map[string]any) (map[string]any, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s config is nil", fcm.ErrInvalidData, name)
	}
	if _, err := json.Marshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s config is not encodable: %v", fcm.ErrInvalidData, name, err)
	}
	return maps.Clone(cfg), nil
}
