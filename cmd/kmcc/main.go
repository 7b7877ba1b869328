package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kmcc-connect/kmcc-backend/app/controllers"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/cache"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/database"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/env"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/gold"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/jobqueue"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/push"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/router"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/s3archive"
)

func main() {
	app, shutdown := NewApplication()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	shutdown()
	if err != nil {
		log.Fatal(err)
	}
}

// NewApplication wires the fiber app. The returned func stops background workers.
func NewApplication() (*fiber.App, func()) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/kmcc to project root
		"../../../", // Fallback
	}

	docsFile := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); err == nil {
			docsFile = path + "public/docs/v1/openapi.yml"
			break
		}
	}
	if docsFile == "" {
		log.Println("OpenAPI document not found, /docs/api disabled")
	}

	db := database.GetDB()
	repos := repository.NewRepositories(db)

	ctx := context.Background()
	cacheUp := cache.Available(ctx)

	deps := router.Dependencies{
		DB:              db,
		Repos:           repos,
		Gold:            gold.NewService(repos),
		HomeCacheTTL:    env.GetDuration("HOME_CACHE_TTL", time.Minute),
		LimiterMax:      env.GetInt("API_RATE_LIMIT", 120),
		DocsFile:        docsFile,
		MetricsUser:     env.GetEnv("METRICS_USER", "admin"),
		MetricsPassword: env.GetEnv("METRICS_PASSWORD", ""),
	}

	stop := func() {}
	if cacheUp {
		deps.LimiterStorage = cache.NewFiberStorage(cache.LimiterDatabase)
		deps.HomeCache = cache.NewStore(cache.GetClient())

		manager := jobqueue.GetManager()
		if credentials := env.GetEnv("FIREBASE_CREDENTIALS_FILE", ""); credentials != "" {
			sender, err := push.NewFCMSender(ctx, credentials)
			if err != nil {
				log.Printf("Push notifications disabled: %v", err)
			} else {
				push.RegisterJobHandlers(manager.GetQueue(), sender)
				deps.Push = push.NewDispatcher(manager.GetQueue(), env.GetEnv("PUSH_TOPIC", push.DefaultTopic))
			}
		}
		manager.Start()
		stop = manager.Stop
	} else {
		log.Println("Redis unavailable: rate limits kept in memory, push and home cache disabled")
	}

	if archive := newArchive(ctx); archive != nil {
		deps.Archive = archive
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: response.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New(), cors.New(cors.Config{
		AllowOrigins: env.GetEnv("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
	}))

	// ROUTER
	router.InstallRouter(app, deps)

	return app, stop
}

func newArchive(ctx context.Context) controllers.Archiver {
	cfg, err := s3archive.LoadConfig()
	if err != nil {
		log.Printf("Export archive disabled: %v", err)
		return nil
	}
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := s3archive.NewClient(ctx, cfg)
	if err != nil {
		log.Printf("Export archive disabled: %v", err)
		return nil
	}
	return client
}
