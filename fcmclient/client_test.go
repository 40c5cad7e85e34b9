package fcmclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-fcm-client/fcmclient"
	"github.com/tinywideclouds/go-fcm-client/fcmclient/config"
	"github.com/tinywideclouds/go-fcm-client/internal/auth"
	"github.com/tinywideclouds/go-fcm-client/internal/transport"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

const (
	projectID = "demo-project"
	senderID  = "1234567890"
	serverKey = "legacy-server-key"
)

// MockAuthorizer satisfies fcm.Authorizer.
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, scope string) (*fcm.Authorization, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fcm.Authorization), args.Error(1)
}

// recordingTransport captures the last request instead of calling out.
type recordingTransport struct {
	last *fcm.HTTPRequest
	resp *fcm.RawResponse
	err  error
}

func (t *recordingTransport) Perform(_ context.Context, req *fcm.HTTPRequest) (*fcm.RawResponse, error) {
	t.last = req
	return t.resp, t.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bearerAuthorizer() *MockAuthorizer {
	m := new(MockAuthorizer)
	m.On("Authorize", mock.Anything, auth.MessagingScope).Return(&fcm.Authorization{
		Scheme:    fcm.SchemeBearer,
		Token:     "access-token",
		ProjectID: projectID,
		Expiry:    time.Now().Add(time.Hour),
	}, nil)
	return m
}

func serverKeyAuthorizer() *MockAuthorizer {
	m := new(MockAuthorizer)
	m.On("Authorize", mock.Anything, auth.MessagingScope).Return(&fcm.Authorization{
		Scheme:    fcm.SchemeServerKey,
		Token:     serverKey,
		ProjectID: senderID,
	}, nil)
	return m
}

// newMockedTransport routes the real HTTP transport through httpmock.
func newMockedTransport(t *testing.T) (*http.Client, fcm.Transport) {
	t.Helper()
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)
	return hc, transport.NewHTTPTransport(hc, newTestLogger())
}

func newClient(t *testing.T, gen fcm.APIGeneration, opts ...fcmclient.Option) *fcmclient.Client {
	t.Helper()
	_, tr := newMockedTransport(t)
	authorizer := bearerAuthorizer()
	if gen == fcm.Legacy {
		authorizer = serverKeyAuthorizer()
	}
	c, err := fcmclient.NewClient(&config.Config{APIVersion: gen}, authorizer, tr, newTestLogger(), opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	logger := newTestLogger()
	tr := &recordingTransport{}

	t.Run("Happy Path", func(t *testing.T) {
		c, err := fcmclient.NewClient(&config.Config{APIVersion: fcm.V1}, bearerAuthorizer(), tr, logger)
		require.NoError(t, err)
		assert.Equal(t, fcm.V1, c.APIVersion())
	})

	t.Run("Missing collaborators fail eagerly", func(t *testing.T) {
		_, err := fcmclient.NewClient(nil, bearerAuthorizer(), tr, logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)

		_, err = fcmclient.NewClient(&config.Config{APIVersion: fcm.V1}, nil, tr, logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)

		_, err = fcmclient.NewClient(&config.Config{APIVersion: fcm.V1}, bearerAuthorizer(), nil, logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
	})

	t.Run("Unknown api version fails", func(t *testing.T) {
		_, err := fcmclient.NewClient(&config.Config{APIVersion: "api_v2"}, bearerAuthorizer(), tr, logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
	})
}

func TestClient_CreateRequest(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	tr := &recordingTransport{}

	t.Run("Unsupported combinations fail before authorization", func(t *testing.T) {
		authorizer := new(MockAuthorizer)
		c, err := fcmclient.NewClient(&config.Config{APIVersion: fcm.V1}, authorizer, tr, logger)
		require.NoError(t, err)

		for _, intent := range []fcm.Intent{fcm.SendToTopic, fcm.SendToGroup, fcm.ManageGroupMembership} {
			_, err := c.CreateRequest(ctx, intent)
			assert.ErrorIs(t, err, fcm.ErrUnsupportedCombination, intent)
		}

		_, err = c.CreateRequest(ctx, fcm.SendToTopic)
		var combo *fcm.UnsupportedCombinationError
		require.True(t, errors.As(err, &combo))
		assert.Contains(t, combo.Valid, fcm.SendToToken)
		authorizer.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
	})

	t.Run("Every supported pair creates a request", func(t *testing.T) {
		supported := map[fcm.APIGeneration][]fcm.Intent{
			fcm.Legacy: fcm.Intents,
			fcm.V1:     {fcm.SendToToken, fcm.ManageTopicSubscription},
		}
		for gen, intents := range supported {
			authorizer := bearerAuthorizer()
			if gen == fcm.Legacy {
				authorizer = serverKeyAuthorizer()
			}
			c, err := fcmclient.NewClient(&config.Config{APIVersion: gen}, authorizer, tr, logger)
			require.NoError(t, err)

			for _, intent := range intents {
				req, err := c.CreateRequest(ctx, intent)
				require.NoError(t, err, "%s/%s", gen, intent)
				assert.Equal(t, fcmclient.StateConstructed, req.State())
				assert.NotEmpty(t, req.ID())
			}
		}
	})

	t.Run("Authorizer failure wraps ErrAuthorization", func(t *testing.T) {
		authorizer := new(MockAuthorizer)
		authorizer.On("Authorize", mock.Anything, auth.MessagingScope).Return(nil, errors.New("token endpoint down"))
		c, err := fcmclient.NewClient(&config.Config{APIVersion: fcm.V1}, authorizer, tr, logger)
		require.NoError(t, err)

		_, err = c.CreateRequest(ctx, fcm.SendToToken)

		assert.ErrorIs(t, err, fcm.ErrAuthorization)
		assert.Contains(t, err.Error(), "token endpoint down")
	})

	t.Run("Missing credential material is a configuration error", func(t *testing.T) {
		authorizer := new(MockAuthorizer)
		authorizer.On("Authorize", mock.Anything, auth.MessagingScope).Return(&fcm.Authorization{
			Scheme: fcm.SchemeServerKey, Token: serverKey,
		}, nil)
		c, err := fcmclient.NewClient(&config.Config{APIVersion: fcm.Legacy}, authorizer, tr, logger)
		require.NoError(t, err)

		_, err = c.CreateRequest(ctx, fcm.SendToToken)

		assert.ErrorIs(t, err, fcm.ErrConfiguration)
		assert.Contains(t, err.Error(), "sender id")
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		authorizer := new(MockAuthorizer)
		authorizer.On("Authorize", mock.Anything, auth.MessagingScope).Return(&fcm.Authorization{
			Scheme: fcm.SchemeBearer, Token: "old", ProjectID: projectID, Expiry: time.Now().Add(-time.Minute),
		}, nil)
		c, err := fcmclient.NewClient(&config.Config{APIVersion: fcm.V1}, authorizer, tr, logger)
		require.NoError(t, err)

		_, err = c.CreateRequest(ctx, fcm.SendToToken)
		assert.ErrorIs(t, err, fcm.ErrAuthorization)
	})
}

func TestNewClientFromConfig(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("Happy Path - legacy wiring sends through the http transport", func(t *testing.T) {
		hc, _ := newMockedTransport(t)
		httpmock.RegisterResponder(http.MethodPost, fcmclient.LegacySendURL, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "key="+serverKey, req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `{"message_id": 42}`), nil
		})

		cfg := &config.Config{APIVersion: fcm.Legacy, ServerKey: serverKey, SenderID: senderID}
		c, err := fcmclient.NewClientFromConfig(ctx, cfg, logger, fcmclient.WithHTTPClient(hc))
		require.NoError(t, err)
		defer c.Close()

		req, err := c.CreateRequest(ctx, fcm.SendToTopic)
		require.NoError(t, err)
		result, err := req.SetTarget(fcm.TargetTopic, "news").SetData(map[string]any{"k": "v"}).Send(ctx)

		require.NoError(t, err)
		assert.True(t, result.IsSuccess())
		assert.Equal(t, "42", result.MessageID)
	})

	t.Run("Invalid config fails", func(t *testing.T) {
		_, err := fcmclient.NewClientFromConfig(ctx, &config.Config{APIVersion: fcm.Legacy}, logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
	})

	t.Run("Unreadable service account file fails", func(t *testing.T) {
		cfg := &config.Config{APIVersion: fcm.V1, ServiceAccountFile: t.TempDir() + "/missing.json"}
		_, err := fcmclient.NewClientFromConfig(ctx, cfg, logger)
		assert.ErrorIs(t, err, fcm.ErrConfiguration)
	})

	t.Run("Bad service account json fails", func(t *testing.T) {
		cfg := &config.Config{APIVersion: fcm.V1, ServiceAccountJSON: []byte(`{"type":"authorized_user"}`)}
		_, err := fcmclient.NewClientFromConfig(ctx, cfg, logger)
		assert.ErrorIs(t, err, fcm.ErrAuthorization)
	})
}
