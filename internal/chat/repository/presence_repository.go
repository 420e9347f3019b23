package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/chat/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/database"
)

const presenceKeyPrefix = "chat:presence:"

// PresenceRepository presence shared across gateway nodes
type PresenceRepository interface {
	SetOnline(ctx context.Context, session domain.PresenceSession) error
	// Refresh extend the record TTL, false when the record is already gone
	Refresh(ctx context.Context, userID string) (bool, error)
	// SetOffline drop the record only when nodeID still owns it
	SetOffline(ctx context.Context, userID, nodeID string) error
	IsOnline(ctx context.Context, userID string) (bool, error)
}

type redisPresenceRepository struct {
	repo database.RedisRepository[domain.PresenceSession]
	ttl  time.Duration
}

// NewRedisPresenceRepository presence records with a TTL, refreshed on heartbeat
func NewRedisPresenceRepository(repo database.RedisRepository[domain.PresenceSession], ttl time.Duration) PresenceRepository {
	if ttl <= 0 {
		ttl = 90 * time.Second
	}
	return &redisPresenceRepository{repo: repo, ttl: ttl}
}

func presenceKey(userID string) string {
	return presenceKeyPrefix + userID
}

func (r *redisPresenceRepository) SetOnline(ctx context.Context, session domain.PresenceSession) error {
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now().UTC()
	}
	return r.repo.Set(ctx, presenceKey(session.UserID), session, r.ttl)
}

func (r *redisPresenceRepository) Refresh(ctx context.Context, userID string) (bool, error) {
	// expired, evicted or lost on a redis restart
	ttl, err := r.repo.GetTTL(ctx, presenceKey(userID))
	if err != nil {
		return false, err
	}
	if ttl <= 0 {
		return false, nil
	}
	return true, r.repo.ExtendTTL(ctx, presenceKey(userID), r.ttl)
}

func (r *redisPresenceRepository) SetOffline(ctx context.Context, userID, nodeID string) error {
	session, err := r.repo.Get(ctx, presenceKey(userID))
	if errors.Is(err, database.ErrRedisNil) {
		return nil
	}
	if err != nil {
		return err
	}
	if session.NodeID != nodeID {
		return nil
	}
	return r.repo.Del(ctx, presenceKey(userID))
}

func (r *redisPresenceRepository) IsOnline(ctx context.Context, userID string) (bool, error) {
	_, err := r.repo.Get(ctx, presenceKey(userID))
	if errors.Is(err, database.ErrRedisNil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
