package responses

import (
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// SupportedIntents lists the intents Select accepts for a generation.
func SupportedIntents(gen fcm.APIGeneration) []fcm.Intent {
	switch gen {
	case fcm.Legacy:
		return []fcm.Intent{fcm.ManageTopicSubscription, fcm.SendToToken, fcm.SendToTopic, fcm.SendToGroup, fcm.ManageGroupMembership}
	case fcm.V1:
		return []fcm.Intent{fcm.ManageTopicSubscription, fcm.SendToToken}
	}
	return []fcm.Intent{fcm.ManageTopicSubscription}
}

// Select returns a fresh parser for the intent and generation. Device group
// management exists only on the legacy API.
func Select(intent fcm.Intent, gen fcm.APIGeneration) (Parser, error) {
	if intent == fcm.ManageTopicSubscription {
		return &TopicSubscriptionParser{}, nil
	}

	switch gen {
	case fcm.Legacy:
		switch intent {
		case fcm.SendToToken:
			return &LegacyTokenParser{}, nil
		case fcm.SendToTopic:
			return &LegacyTopicParser{}, nil
		case fcm.SendToGroup:
			return &LegacyGroupParser{}, nil
		case fcm.ManageGroupMembership:
			return &GroupManagementParser{}, nil
		}
	case fcm.V1:
		if intent == fcm.SendToToken {
			return &V1TokenParser{}, nil
		}
	}

	return nil, &fcm.UnsupportedCombinationError{
		Intent:     intent,
		Generation: gen,
		Valid:      SupportedIntents(gen),
	}
}
