package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/surdiana/userhub/internal/dto"
	"github.com/surdiana/userhub/pkg/logger"
	"github.com/surdiana/userhub/pkg/redis"
	"go.uber.org/zap"
)

const profileCacheKeyPrefix = "userhub:profile:"

// ProfileCache keeps the GET /user projection warm, keyed by email. The
// backing store is Redis when configured and a process-local cache
// otherwise, so callers use it unconditionally.
type ProfileCache struct {
	client redis.Client
	ttl    time.Duration
}

func NewProfileCache(client redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ProfileCache) key(email string) string {
	return profileCacheKeyPrefix + email
}

// Get returns the cached profile and whether it was present.
func (c *ProfileCache) Get(ctx context.Context, email string) (*dto.UserInfo, bool) {
	data, err := c.client.Get(ctx, c.key(email))
	if err != nil || data == nil {
		return nil, false
	}

	var info dto.UserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		logger.GetLogger().Warn("Discarding undecodable profile cache entry",
			zap.String("email", email),
			zap.Error(err),
		)
		_ = c.client.Delete(ctx, c.key(email))
		return nil, false
	}
	return &info, true
}

// Set stores a profile projection. Cache errors are logged, never surfaced.
func (c *ProfileCache) Set(ctx context.Context, email string, info *dto.UserInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(email), data, c.ttl); err != nil {
		logger.GetLogger().Warn("Failed to cache profile",
			zap.String("email", email),
			zap.Error(err),
		)
	}
}

// Invalidate drops the cached profile after a mutation.
func (c *ProfileCache) Invalidate(ctx context.Context, email string) {
	if err := c.client.Delete(ctx, c.key(email)); err != nil {
		logger.GetLogger().Warn("Failed to invalidate profile cache",
			zap.String("email", email),
			zap.Error(err),
		)
	}
}
