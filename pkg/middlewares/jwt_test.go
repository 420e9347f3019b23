package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AsemAbuOthman/Forsah-sub000/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	token.SetSecret("middleware-test-secret")
	app := fiber.New()
	app.Get("/me", JWTMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString(MemberID(c))
	})
	return app
}

func TestJWTMiddleware_Missing(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_Invalid(t *testing.T) {
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_Sources(t *testing.T) {
	token.SetSecret("middleware-test-secret")
	tk, err := token.GenerateJWT("7", string(token.RoleClient), "test")
	require.NoError(t, err)

	header := httptest.NewRequest("GET", "/me", nil)
	header.Header.Set("Authorization", "Bearer "+tk)

	query := httptest.NewRequest("GET", "/me?auth="+tk, nil)

	cookie := httptest.NewRequest("GET", "/me", nil)
	cookie.Header.Set("Cookie", CookieToken+"="+tk)

	for name, req := range map[string]*http.Request{"header": header, "query": query, "cookie": cookie} {
		resp, err := newApp().Test(req)
		require.NoError(t, err, name)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, name)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "7", string(body), name)
	}
}
