package rolecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
)

const defaultTTL = 15 * time.Minute

// Redis is a Redis-backed role cache. Entries carry a TTL so a tier change
// made elsewhere eventually converges even without an explicit
// invalidation.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis role cache with the default prefix and TTL.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, prefix: "role:", ttl: defaultTTL}
}

// NewRedisWithOptions creates a Redis role cache with a custom key prefix
// and TTL. A zero ttl falls back to the default.
func NewRedisWithOptions(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, identityID string) (domainauth.Role, bool, error) {
	if identityID == "" {
		return "", false, nil
	}

	value, err := r.client.Get(ctx, r.prefix+identityID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	role := domainauth.Role(value)
	if !role.Valid() {
		// A corrupt entry is worse than a miss; drop it.
		if delErr := r.Delete(ctx, identityID); delErr != nil {
			return "", false, fmt.Errorf("drop corrupt role entry: %w", delErr)
		}
		return "", false, nil
	}
	return role, true, nil
}

func (r *Redis) Set(ctx context.Context, identityID string, role domainauth.Role) error {
	if identityID == "" {
		return errors.New("identity ID cannot be empty")
	}
	if err := r.client.Set(ctx, r.prefix+identityID, string(role), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, identityID string) error {
	if identityID == "" {
		return nil
	}
	if err := r.client.Del(ctx, r.prefix+identityID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
