package auth

import (
	"context"
	"fmt"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// ServerKeyAuthorizer hands out the static legacy server key.
type ServerKeyAuthorizer struct {
	serverKey string
	senderID  string
}

func NewServerKeyAuthorizer(serverKey, senderID string) (*ServerKeyAuthorizer, error) {
	if serverKey == "" {
		return nil, fmt.Errorf("%w: legacy server key is empty", fcm.ErrAuthorization)
	}
	return &ServerKeyAuthorizer{serverKey: serverKey, senderID: senderID}, nil
}

// Authorize ignores the scope: legacy keys are not scoped.
func (a *ServerKeyAuthorizer) Authorize(_ context.Context, _ string) (*fcm.Authorization, error) {
	return &fcm.Authorization{
		Scheme:    fcm.SchemeServerKey,
		Token:     a.serverKey,
		ProjectID: a.senderID,
	}, nil
}
