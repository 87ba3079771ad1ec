package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface the HTTP surface uses to access
// authentication.
type AuthPort interface {
	Login(ctx context.Context, username, password string) (*TokenGrant, error)
	ValidateToken(ctx context.Context, token string) (*Identity, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Login exchanges the credential pair for a bearer token.
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (*TokenGrant, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &TokenGrant{
		Token:     resp.Token,
		ExpiresIn: resp.ExpiresIn,
	}, nil
}

// ValidateToken validates a bearer token and returns the decoded
// identity.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*Identity, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{Username: resp.Username}, nil
}
