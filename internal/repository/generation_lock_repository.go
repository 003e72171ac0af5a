package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// GenerationLockRepository keeps short-lived per-key locks in Redis.
type GenerationLockRepository struct {
	client *redis.Client
	prefix string
}

// NewGenerationLockRepository builds a lock repository. Keys are stored under prefix.
func NewGenerationLockRepository(client *redis.Client, prefix string) *GenerationLockRepository {
	if prefix == "" {
		prefix = "planner:lock:"
	}
	return &GenerationLockRepository{client: client, prefix: prefix}
}

// TryAcquire sets the lock if it is free. It returns the owner token on success
// and an empty token when another owner holds the lock.
func (r *GenerationLockRepository) TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, r.prefix+key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release drops the lock if token still owns it.
func (r *GenerationLockRepository) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.prefix + key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}
