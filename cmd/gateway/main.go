package main

import (
	"fmt"
	"log"
	"time"

	"design-studio/internal/common/config"
	"design-studio/internal/common/logger"
	"design-studio/internal/common/middleware"
	"design-studio/internal/gateway/handlers"
	"design-studio/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "gateway")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(zl))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check & Docs Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(map[string]handlers.Check{
		"auth":   handlers.UpstreamCheck(cfg.AuthURL),
		"studio": handlers.UpstreamCheck(cfg.StudioURL),
	}, zl))

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec(cfg.DocsPath))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Design Studio API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	px := proxy.New(time.Duration(cfg.WriteTimeout)*time.Second, zl)

	// Auth Service
	api.Post("/login", px.To(cfg.AuthURL+"/login"))
	api.Post("/logout", px.To(cfg.AuthURL+"/logout"))
	api.Get("/me", px.To(cfg.AuthURL+"/me"))
	api.Get("/users/:id", func(c fiber.Ctx) error {
		return px.Forward(c, fmt.Sprintf("%s/users/%s", cfg.AuthURL, c.Params("id")))
	})

	// Studio Service
	api.All("/studio/*", px.Mount(cfg.StudioURL))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	zl.Info("starting api gateway",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("auth_url", cfg.AuthURL),
		zap.String("studio_url", cfg.StudioURL),
	)

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
