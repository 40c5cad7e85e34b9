package responses_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-fcm-client/internal/responses"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

func TestSelect(t *testing.T) {
	supported := map[fcm.APIGeneration]map[fcm.Intent]responses.Parser{
		fcm.Legacy: {
			fcm.SendToToken:             &responses.LegacyTokenParser{},
			fcm.SendToTopic:             &responses.LegacyTopicParser{},
			fcm.SendToGroup:             &responses.LegacyGroupParser{},
			fcm.ManageTopicSubscription: &responses.TopicSubscriptionParser{},
			fcm.ManageGroupMembership:   &responses.GroupManagementParser{},
		},
		fcm.V1: {
			fcm.SendToToken:             &responses.V1TokenParser{},
			fcm.ManageTopicSubscription: &responses.TopicSubscriptionParser{},
		},
	}

	for _, gen := range fcm.APIGenerations {
		for _, intent := range fcm.Intents {
			t.Run(string(gen)+"/"+string(intent), func(t *testing.T) {
				parser, err := responses.Select(intent, gen)

				want, ok := supported[gen][intent]
				if !ok {
					assert.ErrorIs(t, err, fcm.ErrUnsupportedCombination)
					assert.Nil(t, parser)
					return
				}
				require.NoError(t, err)
				assert.IsType(t, want, parser)
			})
		}
	}
}

func TestHandleResponse_NilIsTransportFailure(t *testing.T) {
	parsers := map[string]responses.Parser{
		"v1 token":           &responses.V1TokenParser{},
		"legacy token":       &responses.LegacyTokenParser{},
		"legacy topic":       &responses.LegacyTopicParser{},
		"legacy group":       &responses.LegacyGroupParser{},
		"group management":   &responses.GroupManagementParser{},
		"topic subscription": &responses.TopicSubscriptionParser{},
	}
	for name, p := range parsers {
		t.Run(name, func(t *testing.T) {
			res := p.HandleResponse(nil)
			require.NotNil(t, res)
			assert.Equal(t, fcm.OutcomeFailure, res.Outcome)
			require.NotNil(t, res.Error)
			assert.Equal(t, fcm.KindTransport, res.Error.Kind)
		})
	}
}
