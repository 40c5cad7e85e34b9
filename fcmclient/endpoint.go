package fcmclient

import (
	"github.com/tinywideclouds/go-fcm-client/internal/options"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

const (
	LegacySendURL              = "https://fcm.googleapis.com/fcm/send"
	LegacyGroupManagementURL   = "https://fcm.googleapis.com/fcm/notification"
	TopicAddSubscriptionURL    = "https://iid.googleapis.com/iid/v1:batchAdd"
	TopicRemoveSubscriptionURL = "https://iid.googleapis.com/iid/v1:batchRemove"

	v1SendURLPrefix = "https://fcm.googleapis.com/v1/projects/"
	v1SendURLSuffix = "/messages:send"
)

// endpoint holds what differs between the API generations on the wire.
type endpoint interface {
	sendURL() string
	// extraHeaders are added on top of Content-Type and Authorization.
	extraHeaders(intent fcm.Intent) map[string]string
	// messageBody wraps a built message for the send endpoint.
	messageBody(b options.MessageBuilder) (map[string]any, error)
}

func newEndpoint(gen fcm.APIGeneration, authz fcm.Authorization) endpoint {
	if gen == fcm.Legacy {
		return legacyEndpoint{senderID: authz.ProjectID}
	}
	return v1Endpoint{projectID: authz.ProjectID}
}

type legacyEndpoint struct {
	senderID string
}

func (legacyEndpoint) sendURL() string { return LegacySendURL }

func (e legacyEndpoint) extraHeaders(intent fcm.Intent) map[string]string {
	if intent == fcm.ManageGroupMembership {
		return map[string]string{"project_id": e.senderID}
	}
	return nil
}

// messageBody is the flat legacy message.
func (legacyEndpoint) messageBody(b options.MessageBuilder) (map[string]any, error) {
	return b.Build()
}

type v1Endpoint struct {
	projectID string
}

func (e v1Endpoint) sendURL() string {
	return v1SendURLPrefix + e.projectID + v1SendURLSuffix
}

func (v1Endpoint) extraHeaders(intent fcm.Intent) map[string]string {
	if intent == fcm.ManageTopicSubscription {
		return map[string]string{"access_token_auth": "true"}
	}
	return nil
}

func (v1Endpoint) messageBody(b options.MessageBuilder) (map[string]any, error) {
	msg, err := b.Build()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"validate_only": b.ValidateOnly(),
		"message":       msg,
	}, nil
}
