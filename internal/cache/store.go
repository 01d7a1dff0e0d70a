// Package cache holds short-lived keyed state (captcha answers, sms codes,
// send markers, sessions) in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent or already expired.
var ErrMiss = errors.New("cache: key not found")

// Entry is one key of a batched write.
type Entry struct {
	Key   string
	Value string
	TTL   time.Duration
}

// Store is the keyed ephemeral store used by the verification workflow and sessions.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// Take atomically reads and deletes key.
	Take(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	// SetBatchIfAbsent writes every entry in one atomic step unless guard
	// already exists. It reports whether the entries were written.
	SetBatchIfAbsent(ctx context.Context, guard string, entries ...Entry) (bool, error)
}

// KEYS[1] is the guard, KEYS[2..] the entries; ARGV holds value/ttl_ms pairs.
var setBatchIfAbsentScript = redis.NewScript(`
if KEYS[1] ~= "" and redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
for i = 2, #KEYS do
  local value = ARGV[(i - 2) * 2 + 1]
  local ttl_ms = tonumber(ARGV[(i - 2) * 2 + 2])
  if ttl_ms > 0 then
    redis.call("SET", KEYS[i], value, "PX", ttl_ms)
  else
    redis.call("SET", KEYS[i], value)
  end
end
return 1
`)

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Take(ctx context.Context, key string) (string, error) {
	v, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache getdel %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists %s: %w", key, err)
	}
	return n > 0, nil
}

// TTL returns ErrMiss for absent keys and -1 for keys without expiry.
func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache ttl %s: %w", key, err)
	}
	if d == -2 {
		return 0, ErrMiss
	}
	return d, nil
}

func (s *RedisStore) SetBatchIfAbsent(ctx context.Context, guard string, entries ...Entry) (bool, error) {
	if len(entries) == 0 {
		return false, errors.New("cache batch: no entries")
	}
	keys := make([]string, 0, len(entries)+1)
	args := make([]interface{}, 0, len(entries)*2)
	keys = append(keys, guard)
	for _, e := range entries {
		keys = append(keys, e.Key)
		args = append(args, e.Value, e.TTL.Milliseconds())
	}
	n, err := setBatchIfAbsentScript.Run(ctx, s.client, keys, args...).Int()
	if err != nil {
		return false, fmt.Errorf("cache batch: %w", err)
	}
	return n == 1, nil
}
