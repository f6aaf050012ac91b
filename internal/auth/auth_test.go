package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/UTarts/cardiff-healthcare/internal/gateway"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/httpclient"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(secret, time.Hour)

	token, expires, err := m.GenerateAccessToken("u-1", "admin@cardiff.example", RoleAuthenticated)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := m.Validator()(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@cardiff.example", claims.Email)
	assert.Equal(t, RoleAuthenticated, claims.Role)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager(secret, time.Hour)
	other := NewJWTManager("another-secret-of-sufficient-length!!", time.Hour)

	foreign, _, err := other.GenerateAccessToken("u-1", "x@example.com", RoleAuthenticated)
	require.NoError(t, err)

	expired := NewJWTManager(secret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.GenerateAccessToken("u-1", "x@example.com", RoleAuthenticated)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"no subject", noSubject},
		{"no expiry", noExpiry},
		{"alg none", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateAccessToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func newGateway(t *testing.T, h http.HandlerFunc) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	c, err := gateway.New(gateway.Config{URL: srv.URL, AnonKey: "anon"}, httpclient.New(cfg))
	require.NoError(t, err)
	return c
}

func TestGatewayAuthenticator_SignIn(t *testing.T) {
	var grant string
	var creds map[string]string
	a := NewGatewayAuthenticator(newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		grant = r.URL.Query().Get("grant_type")
		_ = json.NewDecoder(r.Body).Decode(&creds)
		_, _ = w.Write([]byte(`{
			"access_token":"at","token_type":"bearer","expires_in":3600,"expires_at":1767225600,
			"refresh_token":"rt","user":{"id":"u-9","email":"admin@cardiff.example","role":"authenticated"}
		}`))
	}))

	s, err := a.SignIn(context.Background(), "admin@cardiff.example", "pw")
	require.NoError(t, err)

	assert.Equal(t, "password", grant)
	assert.Equal(t, map[string]string{"email": "admin@cardiff.example", "password": "pw"}, creds)
	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, "rt", s.RefreshToken)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), s.ExpiresAt)
	assert.Equal(t, "u-9", s.User.ID)
}

func TestGatewayAuthenticator_BadCredentials(t *testing.T) {
	a := NewGatewayAuthenticator(newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))

	_, err := a.SignIn(context.Background(), "admin@cardiff.example", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestGatewayAuthenticator_SignOutUsesUserToken(t *testing.T) {
	var path, bearer string
	a := NewGatewayAuthenticator(newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		path, bearer = r.URL.Path, r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, a.SignOut(context.Background(), "user-token"))
	assert.Equal(t, "/auth/v1/logout", path)
	assert.Equal(t, "Bearer user-token", bearer)
}

func TestStaticAuthenticator(t *testing.T) {
	m := NewJWTManager(secret, time.Hour)
	a, err := NewStaticAuthenticator("admin@cardiff.example", "letmein", m)
	require.NoError(t, err)

	_, err = a.SignIn(context.Background(), "admin@cardiff.example", "nope")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = a.SignIn(context.Background(), "someone@cardiff.example", "letmein")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	s, err := a.SignIn(context.Background(), "Admin@Cardiff.example", "letmein")
	require.NoError(t, err)
	claims, err := m.ValidateAccessToken(s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, claims.Subject)

	disabled, err := NewStaticAuthenticator("admin@cardiff.example", "", m)
	require.NoError(t, err)
	_, err = disabled.SignIn(context.Background(), "admin@cardiff.example", "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestStaticAuthenticator_AcceptsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	a, err := NewStaticAuthenticator("admin@cardiff.example", string(hash), NewJWTManager(secret, time.Hour))
	require.NoError(t, err)

	_, err = a.SignIn(context.Background(), "admin@cardiff.example", "letmein")
	assert.NoError(t, err)

	_, err = a.SignIn(context.Background(), "admin@cardiff.example", string(hash))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
