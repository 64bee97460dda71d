package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, optional bool) (*fiber.App, jwt.JWTService) {
	t.Helper()
	tokens := jwt.NewJWTService("secret", time.Hour, jwt.NewMemoryDenylist())
	m := NewMiddleware("")

	guard := m.AuthMiddleware(tokens)
	if optional {
		guard = m.OptionalAuthMiddleware(tokens)
	}

	app := fiber.New()
	app.Get("/whoami", guard, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	return app, tokens
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":  "abc",
		"Token abc":   "abc",
		"bearer  abc": "abc",
	} {
		got, ok := bearerToken(header)
		assert.True(t, ok, header)
		assert.Equal(t, want, got, header)
	}

	for _, header := range []string{"", "abc", "Basic abc", "Bearer "} {
		_, ok := bearerToken(header)
		assert.False(t, ok, header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	app, tokens := newTestApp(t, false)
	token, err := tokens.GenerateTokenUser(7)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	app, tokens := newTestApp(t, true)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	token, err := tokens.GenerateTokenUser(7)
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(token))

	req = httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
