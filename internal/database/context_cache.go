package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"narrator-server/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ContextCache keeps the latest progression snapshot per session so
// collaborators can read context without a database round trip.
type ContextCache interface {
	SetContext(ctx context.Context, sessionID uuid.UUID, snapshot models.ProgressionSnapshot) error
	GetContext(ctx context.Context, sessionID uuid.UUID) (*models.ProgressionSnapshot, error)
	DeleteContext(ctx context.Context, sessionID uuid.UUID) error
}

var _ ContextCache = (*redisContextCache)(nil)

type redisContextCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisContextCache creates the Redis-backed context cache.
func NewRedisContextCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ContextCache {
	return &redisContextCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisContextCache"),
	}
}

func contextKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("narrator_context:%s", sessionID)
}

func (c *redisContextCache) SetContext(ctx context.Context, sessionID uuid.UUID, snapshot models.ProgressionSnapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode context snapshot: %w", err)
	}

	if err := c.client.Set(ctx, contextKey(sessionID), body, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to cache context", zap.String("sessionID", sessionID.String()), zap.Error(err))
		return fmt.Errorf("failed to cache context: %w", err)
	}
	return nil
}

func (c *redisContextCache) GetContext(ctx context.Context, sessionID uuid.UUID) (*models.ProgressionSnapshot, error) {
	body, err := c.client.Get(ctx, contextKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		c.logger.Error("Failed to read cached context", zap.String("sessionID", sessionID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to read cached context: %w", err)
	}

	var snapshot models.ProgressionSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		// A corrupt entry is treated as a miss; the caller rebuilds it.
		c.logger.Warn("Dropping corrupt cached context", zap.String("sessionID", sessionID.String()), zap.Error(err))
		_ = c.client.Del(ctx, contextKey(sessionID)).Err()
		return nil, models.ErrNotFound
	}
	return &snapshot, nil
}

func (c *redisContextCache) DeleteContext(ctx context.Context, sessionID uuid.UUID) error {
	if err := c.client.Del(ctx, contextKey(sessionID)).Err(); err != nil {
		c.logger.Error("Failed to delete cached context", zap.String("sessionID", sessionID.String()), zap.Error(err))
		return fmt.Errorf("failed to delete cached context: %w", err)
	}
	return nil
}
