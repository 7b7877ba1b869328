package router

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/database"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
)

// HttpRouter serves the operational endpoints outside /api.
type HttpRouter struct {
	deps Dependencies
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/healthz", h.healthz)

	// fiber metrics
	if h.deps.MetricsPassword != "" {
		user := h.deps.MetricsUser
		if user == "" {
			user = "admin"
		}
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				user: h.deps.MetricsPassword,
			},
		}), monitor.New(monitor.Config{Title: "KMCC Metrics"}))
	}

	// SWAGGER / OPENAPI
	if h.deps.DocsFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: h.deps.DocsFile,
			Path:     "v1",
		}))
	}
}

func (h HttpRouter) healthz(c *fiber.Ctx) error {
	if h.deps.DB != nil {
		if err := database.Ping(h.deps.DB); err != nil {
			log.Errorf("[Health] Database ping failed: %v", err)
			return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable")
		}
	}
	return response.OK(c, fiber.Map{"status": "ok"}, "OK")
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{deps: deps}
}
