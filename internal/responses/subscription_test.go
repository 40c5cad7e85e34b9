package responses_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-fcm-client/internal/responses"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

func TestTopicSubscriptionParser(t *testing.T) {
	newParser := func(tokens ...string) *responses.TopicSubscriptionParser {
		p := &responses.TopicSubscriptionParser{}
		p.SetTokens(tokens)
		return p
	}

	t.Run("Happy Path - every token subscribed", func(t *testing.T) {
		res := newParser("t1", "t2").HandleResponse(raw(http.StatusOK, `{"results":[{},{}]}`))
		assert.True(t, res.IsSuccess())
		assert.Equal(t, []string{"t1", "t2"}, res.Tokens)
	})

	t.Run("Partial failure keeps per-token errors", func(t *testing.T) {
		res := newParser("t1", "t2", "t3").HandleResponse(raw(http.StatusOK, `{"results":[{},{"error":"NOT_FOUND"},{}]}`))
		assert.Equal(t, fcm.OutcomePartialFailure, res.Outcome)
		assert.Equal(t, []string{"t1", "t3"}, res.Tokens)
		assert.Equal(t, []string{"t2"}, res.FailedTokens())
		require.Len(t, res.Items, 3)
		assert.Equal(t, "NOT_FOUND", res.Items[1].Error)
	})

	t.Run("Every token failed", func(t *testing.T) {
		res := newParser("t1").HandleResponse(raw(http.StatusOK, `{"results":[{"error":"INVALID_ARGUMENT"}]}`))
		assert.Equal(t, fcm.OutcomeFailure, res.Outcome)
		assert.Equal(t, "INVALID_ARGUMENT", res.Error.Code)
	})

	t.Run("Top level error", func(t *testing.T) {
		res := newParser("t1").HandleResponse(raw(http.StatusBadRequest, `{"error":"InvalidTokenVersion"}`))
		assert.Equal(t, fcm.OutcomeFailure, res.Outcome)
		assert.Equal(t, "InvalidTokenVersion", res.Error.Code)
	})

	t.Run("Result count mismatch is malformed", func(t *testing.T) {
		res := newParser("t1", "t2").HandleResponse(raw(http.StatusOK, `{"results":[{}]}`))
		assert.Equal(t, fcm.KindMalformedResponse, res.Error.Kind)
	})
}
