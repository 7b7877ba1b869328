package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/controllers"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/gold"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies carries everything the routers wire into controllers.
// Optional members may be left nil.
type Dependencies struct {
	DB    *gorm.DB
	Repos *repository.Repositories
	Gold  *gold.Service

	Push         controllers.Pusher
	Archive      controllers.Archiver
	HomeCache    controllers.PayloadCache
	HomeCacheTTL time.Duration

	// LimiterStorage backs the /api rate limiter; nil keeps counters in memory.
	LimiterStorage fiber.Storage
	LimiterMax     int

	// DocsFile is the OpenAPI document served under /docs/api; empty disables it.
	DocsFile string

	MetricsUser     string
	MetricsPassword string

	Now controllers.Clock
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// HttpRouter goes first so /healthz and the docs stay outside the API limiter.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
