package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLockStore holds station locks as short-TTL Redis keys. The TTL is the
// crash-recovery path: a lock whose owner disappears without releasing falls
// off on its own.
type RedisLockStore struct {
	rdb *redis.Client
}

func NewRedisLockStore(rdb *redis.Client) *RedisLockStore {
	return &RedisLockStore{rdb: rdb}
}

func lockKey(station int) string { return fmt.Sprintf("station:lock:%02d", station) }

// Get returns the session id holding the station lock, or "" if unlocked.
func (s *RedisLockStore) Get(ctx context.Context, station int) (string, error) {
	val, err := s.rdb.Get(ctx, lockKey(station)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Set writes (or refreshes) the lock with the given expiry.
func (s *RedisLockStore) Set(ctx context.Context, station int, sessionID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, lockKey(station), sessionID, ttl).Err()
}

// Del removes the lock.
func (s *RedisLockStore) Del(ctx context.Context, station int) error {
	return s.rdb.Del(ctx, lockKey(station)).Err()
}

// GetAll returns holder session ids for stations 1..max in one round trip.
func (s *RedisLockStore) GetAll(ctx context.Context, max int) (map[int]string, error) {
	keys := make([]string, 0, max)
	for n := 1; n <= max; n++ {
		keys = append(keys, lockKey(n))
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	locked := make(map[int]string)
	for i, v := range vals {
		if holder, ok := v.(string); ok && holder != "" {
			locked[i+1] = holder
		}
	}
	return locked, nil
}
