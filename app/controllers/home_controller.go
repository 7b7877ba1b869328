package controllers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/home"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
)

const homeCacheKey = "home:payload"

// PayloadCache keeps rendered payloads for a short time
type PayloadCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// HomeController serves the aggregated landing screen
type HomeController struct {
	agg   *home.Aggregator
	cache PayloadCache
	ttl   time.Duration
	now   Clock
}

// NewHomeController creates the controller. With a nil cache or a zero ttl
// every request reads the database.
func NewHomeController(agg *home.Aggregator, cache PayloadCache, ttl time.Duration, now Clock) *HomeController {
	return &HomeController{agg: agg, cache: cache, ttl: ttl, now: now.orDefault()}
}

func (hc *HomeController) caching() bool {
	return hc.cache != nil && hc.ttl > 0
}

// Home handles GET /api/user/home
func (hc *HomeController) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if hc.caching() {
		if raw, err := hc.cache.GetBytes(ctx, homeCacheKey); err == nil && len(raw) > 0 {
			return response.OK(c, json.RawMessage(raw), "Home data retrieved successfully")
		}
	}

	payload, err := hc.agg.Load(ctx, hc.now())
	if err != nil {
		return err
	}

	if hc.caching() {
		if raw, err := json.Marshal(payload); err == nil {
			if err := hc.cache.Set(ctx, homeCacheKey, raw, hc.ttl); err != nil {
				log.Warnf("[Home] Failed to cache payload: %v", err)
			}
		}
	}

	return response.OK(c, payload, "Home data retrieved successfully")
}
