package options

import (
	"slices"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

var legacyMessageIntents = []fcm.Intent{fcm.SendToToken, fcm.SendToTopic, fcm.SendToGroup}

// SupportedIntents lists the intents Select accepts for a generation.
func SupportedIntents(gen fcm.APIGeneration) []fcm.Intent {
	intents := []fcm.Intent{fcm.ManageTopicSubscription, fcm.ManageGroupMembership}
	switch gen {
	case fcm.Legacy:
		intents = append(intents, legacyMessageIntents...)
	case fcm.V1:
		intents = append(intents, fcm.SendToToken)
	}
	return intents
}

// Select returns a fresh builder for the intent and generation. Subscription and
// group management builders are generation independent; message builders are not.
func Select(intent fcm.Intent, gen fcm.APIGeneration) (OptionsBuilder, error) {
	switch {
	case intent == fcm.ManageTopicSubscription:
		return NewSubscriptionBuilder(), nil
	case intent == fcm.ManageGroupMembership:
		return NewGroupBuilder(), nil
	case gen == fcm.Legacy && slices.Contains(legacyMessageIntents, intent):
		return NewLegacyMessageBuilder(), nil
	case gen == fcm.V1 && intent == fcm.SendToToken:
		return NewV1MessageBuilder(), nil
	}
	return nil, &fcm.UnsupportedCombinationError{
		Intent:     intent,
		Generation: gen,
		Valid:      SupportedIntents(gen),
	}
}

