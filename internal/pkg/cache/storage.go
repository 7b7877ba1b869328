package cache

import (
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/env"
)

// Database numbers used on the shared redis server. The cache itself uses 0.
const (
	LimiterDatabase = 1
)

// NewFiberStorage returns a fiber.Storage on the cache server, using database db
// so middleware state stays apart from cached payloads.
func NewFiberStorage(db int) fiber.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")

	if c := GetClient(); c != nil {
		if h, p, err := net.SplitHostPort(c.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := c.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: db,
		Reset:    false,
	})
}
