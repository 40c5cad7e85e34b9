package options

import (
	"fmt"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// GroupBuilder accumulates a legacy device group management call.
type GroupBuilder struct {
	operation fcm.GroupOperation
	keyName   string
	key       string
	tokens    []string
}

func NewGroupBuilder() *GroupBuilder {
	return &GroupBuilder{}
}

func (b *GroupBuilder) SetOperation(op fcm.GroupOperation) error {
	if !op.Valid() {
		return fmt.Errorf("%w: unknown group operation %q", fcm.ErrInvalidData, op)
	}
	b.operation = op
	return nil
}

func (b *GroupBuilder) SetNotificationKeyName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: notification key name is empty", fcm.ErrInvalidTarget)
	}
	b.keyName = name
	return nil
}

func (b *GroupBuilder) SetNotificationKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: notification key is empty", fcm.ErrInvalidTarget)
	}
	b.key = key
	return nil
}

func (b *GroupBuilder) SetTokens(tokens ...string) error {
	set, err := tokenSet(tokens)
	if err != nil {
		return err
	}
	b.tokens = set
	return nil
}

func (b *GroupBuilder) Operation() fcm.GroupOperation { return b.operation }

func (b *GroupBuilder) Validate() error {
	switch {
	case b.operation == "":
		return fmt.Errorf("%w: group operation must be set", fcm.ErrIncompleteBuild)
	case b.keyName == "":
		return fmt.Errorf("%w: notification key name must be set", fcm.ErrIncompleteBuild)
	case b.operation != fcm.GroupCreate && b.key == "":
		return fmt.Errorf("%w: notification key is required to %s members", fcm.ErrIncompleteBuild, b.operation)
	case len(b.tokens) == 0:
		return fmt.Errorf("%w: at least one registration token must be set", fcm.ErrIncompleteBuild)
	}
	return nil
}

func (b *GroupBuilder) Build() (map[string]any, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := map[string]any{
		"operation":             string(b.operation),
		"notification_key_name": b.keyName,
		"registration_ids":      append([]string(nil), b.tokens...),
	}
	if b.operation != fcm.GroupCreate {
		out["notification_key"] = b.key
	}
	return out, nil
}
