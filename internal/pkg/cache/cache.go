package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/env"
)

var client *redis.Client

// SetupCache initializes the connection to the redis cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to redis cache: %v", err)
	} else {
		log.Printf("Successfully connected to redis cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Available reports whether the cache answers a ping right now.
func Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return GetClient().Ping(ctx).Err() == nil
}

// Set stores a value in the cache with the given key and expiration time
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(ctx context.Context, key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// GetBytes retrieves a raw value from the cache by key
func GetBytes(ctx context.Context, key string) ([]byte, error) {
	return GetClient().Get(ctx, key).Bytes()
}

// Delete removes a value from the cache by key
func Delete(ctx context.Context, key string) error {
	return GetClient().Del(ctx, key).Err()
}

// IsMiss reports whether err means the key does not exist.
func IsMiss(err error) bool {
	return err == redis.Nil
}

// Store is a redis cache bound to one client. A nil Store is a permanent miss.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	if client == nil {
		return nil
	}
	return &Store{client: client}
}

func (s *Store) GetBytes(ctx context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, redis.Nil
	}
	return s.client.Get(ctx, key).Bytes()
}

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if s == nil {
		return nil
	}
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if s == nil || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
