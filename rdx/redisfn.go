package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared redis connection, set by Init.
var Conn *redis.Client

func Init(ctx context.Context, addr, password string) error {
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := Conn.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return nil
}

func Close() error {
	if Conn == nil {
		return nil
	}
	return Conn.Close()
}

// RdxSetNX sets key only when absent. It reports whether the key was set.
func RdxSetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(ctx, key, value, ttl).Result()
}

func RdxDel(ctx context.Context, keys ...string) error {
	return Conn.Del(ctx, keys...).Err()
}

func RdxSetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return Conn.Set(ctx, key, data, ttl).Err()
}

// RdxGetJSON decodes key into v. It reports false when the key is absent.
func RdxGetJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := Conn.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

func RdxExists(ctx context.Context, key string) (bool, error) {
	n, err := Conn.Exists(ctx, key).Result()
	return n > 0, err
}
