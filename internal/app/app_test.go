package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UTarts/cardiff-healthcare/internal/config"
	"github.com/UTarts/cardiff-healthcare/pkg/health"
	"github.com/UTarts/cardiff-healthcare/pkg/logger"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("GATEWAY_DRIVER", "memory")
	t.Setenv("ADMIN_PASSWORD", "pass")
	t.Setenv("GATEWAY_JWT_SECRET", "test-secret")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewBackend_Memory(t *testing.T) {
	cfg := memoryConfig(t)

	b, err := NewBackend(context.Background(), cfg, health.NewHandler(), logger.Discard())
	require.NoError(t, err)
	defer b.Close()

	products, err := b.Products.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 10)

	session, err := b.Authenticator.SignIn(context.Background(), cfg.AdminEmail, "pass")
	require.NoError(t, err)

	claims, err := b.Tokens.ValidateAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, cfg.AdminEmail, claims.Email)
}

func TestNewBackend_RESTRequiresValidURL(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.GatewayDriver = config.DriverREST
	cfg.GatewayURL = "not a url"
	cfg.GatewayAnonKey = "anon"

	_, err := NewBackend(context.Background(), cfg, health.NewHandler(), logger.Discard())
	assert.Error(t, err)
}

func TestNewApp_ServesCatalog(t *testing.T) {
	cfg := memoryConfig(t)

	a, err := NewApp(cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	rec := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog?category=Syrup", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
