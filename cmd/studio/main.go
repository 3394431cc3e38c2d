package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"design-studio/internal/common/config"
	"design-studio/internal/common/database"
	"design-studio/internal/common/logger"
	"design-studio/internal/common/middleware"
	gwhandlers "design-studio/internal/gateway/handlers"
	"design-studio/internal/studio/catalog"
	"design-studio/internal/studio/export"
	"design-studio/internal/studio/handlers"
	"design-studio/internal/studio/render"
	"design-studio/internal/studio/repository"
	"design-studio/internal/studio/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Studio Service
// ============================================================

func main() {
	cfg := config.Load().WithDefaultPort("3001")

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "studio")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.OpenSQLite(cfg.StudioDBPath)
	if err != nil {
		zl.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	exports := repository.NewExportRepository(db, zl)
	if err := exports.Init("migrations/001_init_studio.sql"); err != nil {
		zl.Fatal("init db", zap.Error(err))
	}

	fonts, err := render.NewFontSource(cfg.FontPath)
	if err != nil {
		zl.Fatal("load font", zap.String("path", cfg.FontPath), zap.Error(err))
	}

	registry := service.NewRegistry(service.RegistryConfig{
		Width:     cfg.ViewportWidth,
		Height:    cfg.ViewportHeight,
		Templates: catalog.NewLibrary(),
		Font:      fonts,
		Logger:    zl,
	})
	defer registry.CloseAll()

	studioHandler := handlers.NewStudioHandler(handlers.Config{
		Registry:    registry,
		Exports:     exports,
		Storage:     export.NewFileStorage(cfg.ExportDir),
		Identity:    service.NewAuthClient(cfg.AuthURL),
		ImportScale: cfg.ImportScale,
		Logger:      zl,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		AppName:      "Studio Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(zl))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", gwhandlers.LivenessProbe)
	app.Get("/health/ready", gwhandlers.ReadinessProbe(map[string]gwhandlers.Check{
		"db": db.PingContext,
	}, zl))

	// ============================================================
	// Studio Routes
	// ============================================================

	studioHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	go shutdownOnSignal(app, zl)

	addr := fmt.Sprintf(":%s", cfg.Port)
	zl.Info("starting studio service",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.Int("viewport_width", cfg.ViewportWidth),
		zap.Int("viewport_height", cfg.ViewportHeight),
	)

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

func shutdownOnSignal(app *fiber.App, zl *zap.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	zl.Info("shutting down")
	if err := app.ShutdownWithContext(ctx); err != nil {
		zl.Warn("shutdown", zap.Error(err))
	}
}
