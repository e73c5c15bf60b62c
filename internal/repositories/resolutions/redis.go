package resolutions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
)

const (
	// Key patterns
	resolutionKeyPrefix = "resolution:"

	// Default TTL for cached resolutions
	resolutionTTL = time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
	TTL          time.Duration
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
	ttl          time.Duration
}

// NewRedisRepository creates a new Redis-backed resolution repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = resolutionTTL
	}

	tp := cfg.TimeProvider
	if tp == nil {
		tp = SystemTime()
	}

	return &redisRepository{
		client:       cfg.Client,
		timeProvider: tp,
		ttl:          ttl,
	}
}

// Get retrieves a record by key
func (r *redisRepository) Get(ctx context.Context, key string) (*Record, error) {
	recordKey := resolutionKeyPrefix + key

	data, err := r.client.Get(ctx, recordKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("resolution not found: %s", key).WithMeta("key", key)
		}
		return nil, errors.Wrap(err, "failed to get resolution")
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to deserialize resolution")
	}

	// Refresh TTL
	r.client.Expire(ctx, recordKey, r.ttl)

	return &record, nil
}

// Put stores a record. Redis expires it after the TTL.
func (r *redisRepository) Put(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.InvalidArgument("record cannot be nil")
	}
	if record.Key == "" {
		return errors.InvalidArgument("record key cannot be empty")
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.timeProvider.Now()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to serialize resolution")
	}

	if err := r.client.Set(ctx, resolutionKeyPrefix+record.Key, string(data), r.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store resolution")
	}

	return nil
}

// Delete removes a record
func (r *redisRepository) Delete(ctx context.Context, key string) error {
	deleted, err := r.client.Del(ctx, resolutionKeyPrefix+key).Result()
	if err != nil {
		return errors.Wrap(err, "failed to delete resolution")
	}

	if deleted == 0 {
		return errors.NotFoundf("resolution not found: %s", key).WithMeta("key", key)
	}
	return nil
}
