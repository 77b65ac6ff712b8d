package services

import (
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// Cache is the keyed cache-store capability the core consumes. Entries are
// pure derived data; concurrent writers for the same key may race and
// last-write-wins is acceptable.
type Cache interface {
	Get(key string) (string, bool, error)
	Set(key, value string, ttlSeconds int) error
	Delete(keys ...string) error
	DeletePattern(pattern string) error

	// AtomicIncrement increments the counter at key atomically, setting the
	// TTL when the key is created, and returns the post-increment value.
	AtomicIncrement(key string, ttlSeconds int) (int64, error)
}

// RedisCache implements Cache on a redigo connection pool.
type RedisCache struct {
	Pool *redis.Pool
}

// NewRedisPool builds a connection pool for the given address.
func NewRedisPool(addr string, maxIdle int) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     maxIdle,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func (rc *RedisCache) Get(key string) (string, bool, error) {
	conn := rc.Pool.Get()
	defer conn.Close()

	value, err := redis.String(conn.Do("GET", key))
	if err == redis.ErrNil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cache key '%s': %w", key, err)
	}
	return value, true, nil
}

func (rc *RedisCache) Set(key, value string, ttlSeconds int) error {
	conn := rc.Pool.Get()
	defer conn.Close()

	_, err := conn.Do("SET", key, value, "EX", ttlSeconds)
	if err != nil {
		return fmt.Errorf("failed to set cache key '%s': %w", key, err)
	}
	return nil
}

func (rc *RedisCache) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	conn := rc.Pool.Get()
	defer conn.Close()

	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	if _, err := conn.Do("DEL", args...); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

func (rc *RedisCache) DeletePattern(pattern string) error {
	conn := rc.Pool.Get()
	defer conn.Close()

	keys, err := redis.Strings(conn.Do("KEYS", pattern))
	if err != nil {
		return fmt.Errorf("failed to list cache keys for pattern '%s': %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	if _, err := conn.Do("DEL", args...); err != nil {
		return fmt.Errorf("failed to delete cache keys for pattern '%s': %w", pattern, err)
	}
	return nil
}

func (rc *RedisCache) AtomicIncrement(key string, ttlSeconds int) (int64, error) {
	conn := rc.Pool.Get()
	defer conn.Close()

	value, err := redis.Int64(conn.Do("INCR", key))
	if err != nil {
		return 0, fmt.Errorf("failed to increment cache key '%s': %w", key, err)
	}
	if value == 1 {
		if _, err := conn.Do("EXPIRE", key, ttlSeconds); err != nil {
			return value, fmt.Errorf("failed to set TTL on cache key '%s': %w", key, err)
		}
	}
	return value, nil
}
