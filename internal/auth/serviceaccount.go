// Package auth provides the authorization collaborators that issue the
// credential material FCM requests are constructed with.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// MessagingScope is the OAuth2 scope for the FCM HTTP v1 API.
const MessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// ServiceAccountAuthorizer issues OAuth2 bearer tokens from a Google service
// account key. Token sources are created once per scope and reuse tokens
// until they expire.
type ServiceAccountAuthorizer struct {
	credentialsJSON []byte
	projectID       string
	clientEmail     string
	logger          *slog.Logger

	mu      sync.Mutex
	sources map[string]oauth2.TokenSource
}

type serviceAccountKey struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// NewServiceAccountAuthorizer parses the key immediately to fail fast on bad
// credentials.
func NewServiceAccountAuthorizer(credentialsJSON []byte, logger *slog.Logger) (*ServiceAccountAuthorizer, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(credentialsJSON, &key); err != nil {
		return nil, fmt.Errorf("%w: service account key is not valid json: %v", fcm.ErrAuthorization, err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("%w: credentials type %q is not service_account", fcm.ErrAuthorization, key.Type)
	}
	if key.ProjectID == "" {
		return nil, fmt.Errorf("%w: service account key has no project_id", fcm.ErrAuthorization)
	}
	if _, err := google.JWTConfigFromJSON(credentialsJSON, MessagingScope); err != nil {
		return nil, fmt.Errorf("%w: %v", fcm.ErrAuthorization, err)
	}

	return &ServiceAccountAuthorizer{
		credentialsJSON: credentialsJSON,
		projectID:       key.ProjectID,
		clientEmail:     key.ClientEmail,
		logger:          logger.With("component", "ServiceAccountAuthorizer"),
		sources:         make(map[string]oauth2.TokenSource),
	}, nil
}

// ProjectID returns the Firebase project the key belongs to.
func (a *ServiceAccountAuthorizer) ProjectID() string { return a.projectID }

// Identity names the credential for cache keys.
func (a *ServiceAccountAuthorizer) Identity() string { return a.clientEmail }

func (a *ServiceAccountAuthorizer) Authorize(ctx context.Context, scope string) (*fcm.Authorization, error) {
	src, err := a.tokenSource(ctx, scope)
	if err != nil {
		return nil, err
	}
	tok, err := src.Token()
	if err != nil {
		a.logger.Error("Failed to obtain access token", "scope", scope, "err", err)
		return nil, fmt.Errorf("%w: %v", fcm.ErrAuthorization, err)
	}
	return &fcm.Authorization{
		Scheme:    fcm.SchemeBearer,
		Token:     tok.AccessToken,
		ProjectID: a.projectID,
		Expiry:    tok.Expiry,
	}, nil
}

func (a *ServiceAccountAuthorizer) tokenSource(ctx context.Context, scope string) (oauth2.TokenSource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if src, ok := a.sources[scope]; ok {
		return src, nil
	}
	cfg, err := google.JWTConfigFromJSON(a.credentialsJSON, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fcm.ErrAuthorization, err)
	}
	// The source outlives this call, so it must not inherit its cancellation.
	src := cfg.TokenSource(context.WithoutCancel(ctx))
	a.sources[scope] = src
	a.logger.Debug("Token source created", "scope", scope, "client_email", a.clientEmail)
	return src, nil
}
