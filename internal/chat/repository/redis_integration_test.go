//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/database"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"
	testtool "github.com/AsemAbuOthman/Forsah-sub000/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisRelayAndPresence(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	container, host, port, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	require.NoError(t, err)
	defer container.Terminate(ctx)

	client, err := database.NewRedisSingleClient(fmt.Sprintf("%s:%s", host, port), 0)
	require.NoError(t, err)
	defer client.Close()

	t.Run("relay skips own node", func(t *testing.T) {
		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		nodeA := NewRedisPubSub(client, "chat:relay:test", "a")
		nodeB := NewRedisPubSub(client, "chat:relay:test", "b")

		got := make(chan domain.RelayEnvelope, 4)
		require.NoError(t, nodeB.Subscribe(subCtx, func(env domain.RelayEnvelope) { got <- env }))

		require.NoError(t, nodeB.Publish(ctx, domain.RelayEnvelope{Scope: domain.ScopeAll, Event: domain.Event(domain.UserOnline, nil)}))
		require.NoError(t, nodeA.Publish(ctx, domain.RelayEnvelope{Scope: domain.ScopeUser, Target: "u1",
			Event: domain.Event(domain.Typing, domain.TypingEvent{SenderID: "u2", IsTyping: true})}))

		select {
		case env := <-got:
			assert.Equal(t, "a", env.Origin)
			assert.Equal(t, domain.ScopeUser, env.Scope)
			assert.Equal(t, "typing", env.Event.Action)
		case <-time.After(5 * time.Second):
			t.Fatal("relay message not received")
		}
		assert.Empty(t, got)
	})

	t.Run("presence", func(t *testing.T) {
		repo := NewRedisPresenceRepository(database.NewRedisRepository[domain.PresenceSession](client), time.Minute)

		require.NoError(t, repo.SetOnline(ctx, domain.PresenceSession{UserID: "u1", NodeID: "a", Connections: 1}))
		online, err := repo.IsOnline(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, online)

		alive, err := repo.Refresh(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, alive)

		alive, err = repo.Refresh(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, alive)

		require.NoError(t, repo.SetOffline(ctx, "u1", "b"))
		online, _ = repo.IsOnline(ctx, "u1")
		assert.True(t, online, "other node must not clear the record")

		require.NoError(t, repo.SetOffline(ctx, "u1", "a"))
		online, _ = repo.IsOnline(ctx, "u1")
		assert.False(t, online)
	})
}
