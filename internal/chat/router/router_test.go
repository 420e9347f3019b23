package router

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/app"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/hub"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger.SetNewNop()

	cache, err := hub.NewMessageCache(0, 0)
	require.NoError(t, err)
	gateway := app.NewGatewayUseCase("node-r", hub.NewPresence(true), cache, new(app.MockMessageStore), app.NewJWTValidator(false))

	r := fiber.New()
	RegisterRoutes(r, "node-r", gateway, app.NewChatWebsocketHandler(gateway, time.Minute, 8))
	return r
}

func TestHealth(t *testing.T) {
	r := newTestApp(t)

	resp, err := r.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "node-r", body["node_id"])
	assert.Equal(t, float64(0), body["connections"])
}

func TestWS_RequiresUpgrade(t *testing.T) {
	r := newTestApp(t)

	resp, err := r.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
