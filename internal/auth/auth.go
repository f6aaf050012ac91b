// Package auth signs administrators in through the gateway and verifies
// the tokens it issues.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/internal/gateway"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/middleware"
)

// Authenticator performs password sign-in and sign-out.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// tokenResponse is the gateway's password grant response.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	RefreshToken string      `json:"refresh_token"`
	User         domain.User `json:"user"`
}

// GatewayAuthenticator uses the gateway's /auth/v1 endpoints.
type GatewayAuthenticator struct {
	client *gateway.Client
	now    func() time.Time
}

// NewGatewayAuthenticator creates an authenticator for client.
func NewGatewayAuthenticator(client *gateway.Client) *GatewayAuthenticator {
	return &GatewayAuthenticator{client: client, now: time.Now}
}

// SignIn exchanges email and password for a session.
func (a *GatewayAuthenticator) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	var resp tokenResponse
	_, err := a.client.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/token",
		Query:  url.Values{"grant_type": {"password"}},
		JSON:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		if apperrors.HTTPStatus(err) == http.StatusBadRequest {
			return nil, apperrors.Unauthorized("invalid login credentials")
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, apperrors.Unauthorized("gateway returned no access token")
	}

	session := &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		User:         resp.User,
	}
	switch {
	case resp.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(resp.ExpiresAt, 0).UTC()
	case resp.ExpiresIn > 0:
		session.ExpiresAt = a.now().UTC().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return session, nil
}

// SignOut revokes the session behind accessToken.
func (a *GatewayAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	ctx = middleware.WithAccessToken(ctx, accessToken)
	if _, err := a.client.Send(ctx, gateway.Request{Method: http.MethodPost, Path: "/auth/v1/logout"}, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// passwordCost is the bcrypt cost used when the configured password is
// given in plain text.
const passwordCost = bcrypt.DefaultCost

// StaticAuthenticator accepts a single configured administrator and issues
// its own tokens. It backs the memory and postgres gateways.
type StaticAuthenticator struct {
	email  string
	hash   []byte
	userID string
	tokens *JWTManager
}

// NewStaticAuthenticator creates an authenticator for one account. password
// may be a bcrypt hash or plain text; an empty password disables sign-in.
func NewStaticAuthenticator(email, password string, tokens *JWTManager) (*StaticAuthenticator, error) {
	a := &StaticAuthenticator{
		email:  email,
		userID: uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		tokens: tokens,
	}
	switch {
	case password == "":
	case isBcryptHash(password):
		a.hash = []byte(password)
	default:
		hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		a.hash = hash
	}
	return a, nil
}

func isBcryptHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}
	return strings.HasPrefix(s, "$2")
}

// SignIn checks the credentials and returns a fresh token.
func (a *StaticAuthenticator) SignIn(_ context.Context, email, password string) (*domain.Session, error) {
	if len(a.hash) == 0 {
		return nil, apperrors.Unauthorized("invalid login credentials")
	}
	// The hash is always compared so an unknown e-mail costs the same time.
	pwErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !strings.EqualFold(email, a.email) || pwErr != nil {
		return nil, apperrors.Unauthorized("invalid login credentials")
	}

	token, expires, err := a.tokens.GenerateAccessToken(a.userID, a.email, RoleAuthenticated)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expires,
		User:        domain.User{ID: a.userID, Email: a.email, Role: RoleAuthenticated},
	}, nil
}

// SignOut is a no-op; issued tokens expire on their own.
func (a *StaticAuthenticator) SignOut(context.Context, string) error {
	return nil
}
