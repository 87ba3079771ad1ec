package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Config holds the auth module configuration: the single shared
// credential pair and the token settings.
type Config struct {
	Username string
	Password string
	JWT      JWTConfig
}

// AuthModule provides authentication services.
type AuthModule struct {
	config  Config
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(config Config) *AuthModule {
	return &AuthModule{
		config: config,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth service.
func (m *AuthModule) Start(_ context.Context) error {
	service, err := NewAuthService(m.config.Username, m.config.Password, NewJWTManager(m.config.JWT))
	if err != nil {
		return fmt.Errorf("failed to build auth service: %w", err)
	}
	m.service = service

	log.Printf("[auth] Module started (account: %s, token lifetime: %s)", m.config.Username, m.config.JWT.TokenDuration)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Service returns the auth service.
func (m *AuthModule) Service() *AuthService {
	return m.service
}

// RegisterServices registers request-reply services in the service
// container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	log.Printf("[auth] Registered services: login, validate-token")
	return nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	grant, err := m.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:     grant.Token,
		ExpiresIn: grant.ExpiresIn,
	}, nil
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	identity, ok := m.service.Verify(ctx, req.Token)
	if !ok {
		// Return a response, not an error, for validation failures.
		return ValidateTokenResponse{Valid: false}, nil
	}
	return ValidateTokenResponse{
		Valid:    true,
		Username: identity.Username,
	}, nil
}
