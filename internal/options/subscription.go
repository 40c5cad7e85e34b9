package options

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// MaxSubscriptionTokens is the IID batch limit for one subscription call.
const MaxSubscriptionTokens = 1000

// SubscriptionBuilder accumulates a topic subscribe or unsubscribe call.
// It subscribes unless SetSubscribe(false) is called.
type SubscriptionBuilder struct {
	topic     string
	tokens    []string
	subscribe bool
}

func NewSubscriptionBuilder() *SubscriptionBuilder {
	return &SubscriptionBuilder{subscribe: true}
}

func (b *SubscriptionBuilder) SetTopic(topic string) error {
	topic = strings.TrimPrefix(topic, fcm.TopicsPath)
	if topic == "" {
		return fmt.Errorf("%w: topic is empty", fcm.ErrInvalidTarget)
	}
	b.topic = topic
	return nil
}

// SetTokens replaces the registration tokens. Duplicates are dropped, first
// occurrence order is kept.
func (b *SubscriptionBuilder) SetTokens(tokens ...string) error {
	set, err := tokenSet(tokens)
	if err != nil {
		return err
	}
	if len(set) > MaxSubscriptionTokens {
		return fmt.Errorf("%w: %d tokens exceeds the limit of %d", fcm.ErrInvalidData, len(set), MaxSubscriptionTokens)
	}
	b.tokens = set
	return nil
}

func (b *SubscriptionBuilder) SetSubscribe(subscribe bool) { b.subscribe = subscribe }

func (b *SubscriptionBuilder) Subscribed() bool { return b.subscribe }

func (b *SubscriptionBuilder) Topic() string { return b.topic }

func (b *SubscriptionBuilder) Validate() error {
	if b.topic == "" {
		return fmt.Errorf("%w: topic must be set", fcm.ErrIncompleteBuild)
	}
	if len(b.tokens) == 0 {
		return fmt.Errorf("%w: at least one registration token must be set", fcm.ErrIncompleteBuild)
	}
	return nil
}

// Build returns the registration tokens. The topic travels separately.
func (b *SubscriptionBuilder) Build() ([]string, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return slices.Clone(b.tokens), nil
}

func tokenSet(tokens []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tokens))
	set := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			return nil, fmt.Errorf("%w: registration token is empty", fcm.ErrInvalidTarget)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		set = append(set, t)
	}
	return set, nil
}
