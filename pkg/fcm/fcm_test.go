package fcm_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

func TestParse(t *testing.T) {
	t.Run("Happy Path - known values", func(t *testing.T) {
		gen, err := fcm.ParseAPIGeneration("legacy_api")
		require.NoError(t, err)
		assert.Equal(t, fcm.Legacy, gen)

		intent, err := fcm.ParseIntent("for_topic_management")
		require.NoError(t, err)
		assert.Equal(t, fcm.ManageTopicSubscription, intent)
	})

	t.Run("Unknown values are configuration errors", func(t *testing.T) {
		_, err := fcm.ParseAPIGeneration("v2")
		assert.ErrorIs(t, err, fcm.ErrConfiguration)

		_, err = fcm.ParseIntent("for_everything")
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
	})
}

func TestAuthorization(t *testing.T) {
	now := time.Now()

	bearer := fcm.Authorization{Scheme: fcm.SchemeBearer, Token: "ya29", Expiry: now.Add(time.Minute)}
	assert.Equal(t, "Bearer ya29", bearer.HeaderValue())
	assert.True(t, bearer.Valid(now))
	assert.False(t, bearer.Valid(now.Add(2*time.Minute)))

	key := fcm.Authorization{Scheme: fcm.SchemeServerKey, Token: "AAAA"}
	assert.Equal(t, "key=AAAA", key.HeaderValue())
	assert.True(t, key.Valid(now), "server keys never expire")

	assert.False(t, fcm.Authorization{}.Valid(now))
}

func TestUnsupportedCombinationError(t *testing.T) {
	var err error = &fcm.UnsupportedCombinationError{
		Intent:     fcm.SendToTopic,
		Generation: fcm.V1,
		Valid:      []fcm.Intent{fcm.SendToToken},
	}
	wrapped := fmt.Errorf("create request: %w", err)

	assert.ErrorIs(t, wrapped, fcm.ErrUnsupportedCombination)
	assert.NotErrorIs(t, wrapped, fcm.ErrConfiguration)

	var combo *fcm.UnsupportedCombinationError
	require.True(t, errors.As(wrapped, &combo))
	assert.Equal(t, fcm.SendToTopic, combo.Intent)
	assert.Contains(t, err.Error(), "for_token_sending")
}

func TestResult(t *testing.T) {
	res := &fcm.Result{
		Outcome: fcm.OutcomePartialFailure,
		Items: []fcm.ItemResult{
			{Token: "t1", MessageID: "m1"},
			{Token: "t2", Error: "NotRegistered"},
		},
	}
	assert.False(t, res.IsSuccess())
	assert.Equal(t, []string{"t2"}, res.FailedTokens())

	var nilResult *fcm.Result
	assert.False(t, nilResult.IsSuccess())
	assert.Nil(t, nilResult.FailedTokens())

	failure := fcm.TransportFailure()
	assert.Equal(t, fcm.OutcomeFailure, failure.Outcome)
	assert.Equal(t, fcm.KindTransport, failure.Error.Kind)
}
