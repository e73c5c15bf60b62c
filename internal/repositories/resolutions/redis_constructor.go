package resolutions

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a new Redis-backed resolution repository with the given TTL
func NewRedis(client redis.UniversalClient, ttl time.Duration) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:       client,
		TimeProvider: SystemTime(),
		TTL:          ttl,
	})
}
