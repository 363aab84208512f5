package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisTakeScript reads and deletes a key atomically.
// KEYS[1] = queue key
var redisTakeScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v then
    redis.call("DEL", KEYS[1])
end
return v
`)

// RedisPrefix namespaces queue keys inside a shared Redis database.
const RedisPrefix = "sigpad:"

// Redis stores keys as Redis strings.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a backend connected to addr.
func NewRedis(addr, password string, db int) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: rdb}
}

// NewRedisFromClient wraps an existing client. Close closes the client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Ping verifies the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Read returns the value for key, or (nil, nil) when absent.
func (r *Redis) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, RedisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get: %w", err)
	}
	return data, nil
}

// Write sets the value for key without expiry.
func (r *Redis) Write(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, RedisPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

// Clear deletes key.
func (r *Redis) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, RedisPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis: del: %w", err)
	}
	return nil
}

// Take runs the GET+DEL script.
func (r *Redis) Take(ctx context.Context, key string) ([]byte, error) {
	res, err := redisTakeScript.Run(ctx, r.client, []string{RedisPrefix + key}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: take: %w", err)
	}
	s, ok := res.(string)
	if !ok {
		return nil, fmt.Errorf("redis: take: unexpected reply %T", res)
	}
	return []byte(s), nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

var (
	_ Backend = (*Redis)(nil)
	_ Taker   = (*Redis)(nil)
)
