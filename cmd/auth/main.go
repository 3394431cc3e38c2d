package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"design-studio/internal/auth/handlers"
	"design-studio/internal/auth/repository"
	"design-studio/internal/auth/service"
	"design-studio/internal/common/config"
	"design-studio/internal/common/database"
	"design-studio/internal/common/logger"
	"design-studio/internal/common/middleware"
	gwhandlers "design-studio/internal/gateway/handlers"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Auth Service
// ============================================================

func main() {
	cfg := config.Load().WithDefaultPort("3002")

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "auth")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.OpenSQLite(cfg.AuthDBPath)
	if err != nil {
		zl.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	repo := repository.New(db, zl)
	if err := repo.Init(context.Background(), "migrations/001_init_auth.sql", cfg.AdminPassword); err != nil {
		zl.Fatal("init db", zap.Error(err))
	}

	sessionManager := service.NewSessionManager(time.Duration(cfg.SessionTTLHours) * time.Hour)
	authHandler := handlers.NewAuthHandler(repo, sessionManager, zl)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Auth Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(zl))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", gwhandlers.LivenessProbe)
	app.Get("/health/ready", gwhandlers.ReadinessProbe(map[string]gwhandlers.Check{
		"db": db.PingContext,
	}, zl))

	// ============================================================
	// Auth Routes
	// ============================================================

	authHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	zl.Info("starting auth service", zap.String("addr", addr), zap.String("env", cfg.Environment))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
