package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/validators"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test_jwt_secret"

func newTestApp(t *testing.T, authEnabled bool, checks map[string]HealthCheck) (*config.Config, Deps) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	service := services.NewProductService(
		repositories.NewInMemoryProductRepository(),
		validators.NewProductAddRequestValidator(),
		validators.NewProductUpdateRequestValidator(),
		services.WithLogger(logger),
	)
	cfg := &config.Config{
		APIPrefix: "/api",
		Auth:      config.AuthConfig{Enabled: authEnabled, JWTSecret: testSecret},
	}
	return cfg, Deps{
		Products: handlers.NewProductHandler(service, logger),
		Verifier: middleware.NewJWTVerifier(testSecret),
		Logger:   logger,
		Checks:   checks,
	}
}

func penBody(t *testing.T) io.Reader {
	t.Helper()
	b, err := json.Marshal(map[string]interface{}{
		"productName":     "Pen",
		"category":        "Stationery",
		"unitPrice":       1.5,
		"quantityInStock": 100,
	})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestAuthGate(t *testing.T) {
	cfg, deps := newTestApp(t, true, nil)
	app := New(cfg, deps)

	// Reads stay public.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/products", penBody(t))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/products", penBody(t))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAuthDisabled(t *testing.T) {
	cfg, deps := newTestApp(t, false, nil)
	app := New(cfg, deps)

	req := httptest.NewRequest(http.MethodPost, "/api/products", penBody(t))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	cfg, deps := newTestApp(t, false, map[string]HealthCheck{
		"database": func() error { return nil },
	})
	app := New(cfg, deps)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])

	cfg, deps = newTestApp(t, false, map[string]HealthCheck{
		"database": func() error { return errors.New("connection refused") },
	})
	app = New(cfg, deps)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	cfg, deps := newTestApp(t, false, nil)
	app := New(cfg, deps)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestUnknownRouteIsProblem(t *testing.T) {
	cfg, deps := newTestApp(t, false, nil)
	app := New(cfg, deps)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestPanicIsLoggedAsServerError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg, deps := newTestApp(t, false, nil)
	deps.Logger = zap.New(core)
	app := New(cfg, deps)
	app.Get("/explode", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/explode", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[0].ContextMap()["status"])
	assert.Equal(t, "/explode", entries[0].ContextMap()["path"])
}
