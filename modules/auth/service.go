package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when login credentials do not match
// the configured account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Identity is the decoded holder of a valid bearer token.
type Identity struct {
	Username string `json:"username"`
}

// TokenGrant is the result of a successful login.
type TokenGrant struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AuthService gates the task endpoints behind a single shared
// credential. There is exactly one account, configured externally; the
// issued token is a stateless bearer credential with no session or
// revocation list behind it.
type AuthService struct {
	username     string
	passwordHash []byte
	jwt          *JWTManager
}

// NewAuthService creates an AuthService for the given credential pair.
// The password is bcrypt-hashed immediately and the plaintext is not
// retained.
func NewAuthService(username, password string, jwt *JWTManager) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash configured password: %w", err)
	}
	return &AuthService{
		username:     username,
		passwordHash: hash,
		jwt:          jwt,
	}, nil
}

// Authenticate checks the credential pair and, on success, issues a
// signed, time-limited bearer token.
func (s *AuthService) Authenticate(_ context.Context, username, password string) (*TokenGrant, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	if !usernameOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(s.username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &TokenGrant{
		Token:     token,
		ExpiresIn: s.jwt.TokenDuration(),
	}, nil
}

// Verify checks a bearer token and returns the decoded identity. A bad
// token yields ok == false, never an error: callers at the HTTP
// boundary turn that into a 401.
func (s *AuthService) Verify(_ context.Context, token string) (*Identity, bool) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	return &Identity{Username: claims.Username}, true
}
