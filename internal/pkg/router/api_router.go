package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/kmcc-connect/kmcc-backend/app/controllers"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/gold"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/home"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/middleware"
)

const defaultLimiterMax = 120

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	limit := h.deps.LimiterMax
	if limit <= 0 {
		limit = defaultLimiterMax
	}
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		Storage:    h.deps.LimiterStorage,
	}), middleware.Authenticate(h.deps.Repos.User))

	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	h.registerGoldRoutes(api.Group("/gold"))
	h.registerUserRoutes(api.Group("/user"))
	h.registerTravelRoutes(api.Group("/travel"))
	h.registerNotificationRoutes(api.Group("/notifications"))
	h.registerSubWingRoutes(api.Group("/subwing"))
}

func (h ApiRouter) goldService() *gold.Service {
	if h.deps.Gold != nil {
		return h.deps.Gold
	}
	svc := gold.NewService(h.deps.Repos)
	if h.deps.Now != nil {
		svc = svc.WithClock(h.deps.Now)
	}
	return svc
}

func (h ApiRouter) registerGoldRoutes(g fiber.Router) {
	gc := controllers.NewGoldController(h.goldService(), h.deps.Archive, h.deps.Now)

	g.Post("/start", gc.StartProgram)
	g.Post("/end", gc.EndProgram)
	g.Get("/active", gc.ActiveProgram)
	g.Get("/all", gc.AllPrograms)

	// static segments must be registered before /:programId
	g.Get("/winners/current", gc.CurrentWinners)
	g.Post("/winners", gc.AddWinners)
	g.Put("/winners/:winnerId", middleware.RequireAPIAuth, gc.UpdateWinner)
	g.Delete("/winners/:winnerId", gc.DeleteWinner)

	g.Post("/lots", gc.AssignLot)
	g.Get("/lots/:lotId", gc.LotDetails)
	g.Delete("/lots/:lotId", gc.DeleteLot)

	g.Post("/payments", gc.RecordPayment)
	g.Put("/payments/:paymentId", middleware.RequireAPIAuth, gc.UpdatePayment)
	g.Delete("/payments/:paymentId", middleware.RequireAPIAuth, gc.DeletePayment)

	g.Get("/:programId/winners", gc.ProgramWinners)
	g.Get("/:programId/lots", gc.LotsByProgram)
	g.Get("/:programId/export-payments", gc.ExportPayments)
	g.Get("/:programId", gc.ProgramDetails)
}

func (h ApiRouter) registerUserRoutes(g fiber.Router) {
	hc := controllers.NewHomeController(home.NewAggregator(h.deps.Repos), h.deps.HomeCache, h.deps.HomeCacheTTL, h.deps.Now)
	uc := controllers.NewUserController(h.deps.Repos, h.goldService(), h.deps.Now)

	g.Get("/home", hc.Home)
	g.Get("/events", uc.Events)
	g.Get("/events/:eventId", middleware.RequireAPIAuth, uc.EventDetails)
	g.Post("/register-event", middleware.RequireAPIAuth, uc.RegisterEvent)
	g.Get("/attended-events", middleware.RequireAPIAuth, uc.AttendedEvents)
	g.Get("/me", middleware.RequireAPIAuth, uc.Profile)
	g.Put("/update", middleware.RequireAPIAuth, uc.UpdateProfile)
	g.Put("/upload-avatar", middleware.RequireAPIAuth, uc.UploadAvatar)
	g.Get("/norka-details", middleware.RequireAPIAuth, uc.NorkaDetails)
	g.Get("/securityschema-details", middleware.RequireAPIAuth, uc.SecuritySchemeDetails)
	g.Get("/pravasi-welfare-membership", middleware.RequireAPIAuth, uc.PravasiWelfareMembership)
	g.Get("/export", middleware.RequireAPIAuth, uc.Export)
}

func (h ApiRouter) registerTravelRoutes(g fiber.Router) {
	tc := controllers.NewTravelController(h.deps.Repos.Travel, h.broadcaster(), h.deps.Now)

	g.Get("/airports", tc.Airports)
	g.Get("/upcoming", middleware.RequireAPIAuth, tc.Upcoming)
	g.Get("/", tc.List)
	g.Post("/", middleware.RequireAPIAuth, tc.Create)
	g.Put("/:id", middleware.RequireAPIAuth, tc.Update)
	g.Delete("/:id", middleware.RequireAPIAuth, tc.Delete)
}

func (h ApiRouter) registerNotificationRoutes(g fiber.Router) {
	nc := controllers.NewNotificationController(h.deps.Repos, h.deps.Push)

	g.Post("/register-token", nc.RegisterToken)
	g.Post("/global", middleware.RequireAdmin, nc.SendGlobal)
	g.Get("/admin/all", middleware.RequireAdmin, nc.All)
	g.Get("/user", middleware.RequireAPIAuth, nc.Mine)
	g.Patch("/:notificationId/read", middleware.RequireAPIAuth, nc.MarkRead)
}

func (h ApiRouter) registerSubWingRoutes(g fiber.Router) {
	sc := controllers.NewSubWingController(h.deps.Repos.SubWing)

	g.Get("/", sc.List)
	g.Post("/", middleware.RequireAdmin, sc.Create)

	g.Put("/members/:memberId", middleware.RequireAdmin, sc.UpdateMember)
	g.Delete("/members/:memberId", middleware.RequireAdmin, sc.DeleteMember)

	g.Get("/:subWingId/members", sc.Members)
	g.Post("/:subWingId/members", middleware.RequireAdmin, sc.AddMember)
	g.Get("/:subWingId", sc.Details)
	g.Put("/:subWingId", middleware.RequireAdmin, sc.Update)
}

// broadcaster keeps a nil Pusher a nil interface value.
func (h ApiRouter) broadcaster() controllers.Broadcaster {
	if h.deps.Push == nil {
		return nil
	}
	return h.deps.Push
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
