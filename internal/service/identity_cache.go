package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/it-tms/tms-service/internal/domain"
	"github.com/it-tms/tms-service/internal/repository"
)

// cachedUser is the redis representation of a resolved identity. The
// password hash is deliberately absent: nothing after authentication
// needs it.
type cachedUser struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// IdentityCache resolves token subjects to users through a read-through
// redis cache. A redis outage degrades to plain repository lookups.
type IdentityCache struct {
	client *redis.Client
	users  repository.UserRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewIdentityCache builds the cache. A nil client disables caching.
func NewIdentityCache(client *redis.Client, users repository.UserRepository, ttlSeconds int, logger *zap.Logger) *IdentityCache {
	if ttlSeconds <= 0 {
		ttlSeconds = 60
	}
	return &IdentityCache{
		client: client,
		users:  users,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		logger: logger,
	}
}

// ResolveUser implements auth.UserResolver.
func (c *IdentityCache) ResolveUser(ctx context.Context, id int64) (*domain.User, error) {
	if user := c.lookup(ctx, id); user != nil {
		return user, nil
	}

	user, err := c.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, user)
	return user, nil
}

func (c *IdentityCache) lookup(ctx context.Context, id int64) *domain.User {
	if c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, identityKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("identity cache read failed", zap.Error(err))
		}
		return nil
	}
	var cached cachedUser
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Debug("identity cache entry corrupt", zap.Int64("user_id", id), zap.Error(err))
		return nil
	}
	return &domain.User{
		ID:        cached.ID,
		Username:  cached.Username,
		Email:     cached.Email,
		Role:      cached.Role,
		CreatedAt: cached.CreatedAt,
	}
}

func (c *IdentityCache) store(ctx context.Context, user *domain.User) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, identityKey(user.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("identity cache write failed", zap.Error(err))
	}
}

func identityKey(id int64) string {
	return "identity:user:" + strconv.FormatInt(id, 10)
}
