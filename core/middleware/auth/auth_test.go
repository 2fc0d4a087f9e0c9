package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := Config{Secret: "test-secret", TokenTTLHours: 1}

	token, err := GenerateToken(7, "cashier@example.com", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, cfg.Secret)
	require.NoError(t, err)
	assert.Equal(t, "cashier@example.com", claims["email"])
	assert.EqualValues(t, 7, claims["userId"])

	_, err = ValidateToken(token, "wrong-secret")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	cfg := Config{Secret: "test-secret", TokenTTLHours: 1}

	newApp := func() *fiber.App {
		app := fiber.New()
		app.Use(New(cfg))
		app.Get("/protected", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		return app
	}

	t.Run("Missing Header", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid Token", func(t *testing.T) {
		app := newApp()
		token, err := GenerateToken(1, "cashier@example.com", cfg)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
