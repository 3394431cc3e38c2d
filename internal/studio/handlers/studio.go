package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"design-studio/internal/studio/catalog"
	"design-studio/internal/studio/editor"
	"design-studio/internal/studio/export"
	"design-studio/internal/studio/models"
	"design-studio/internal/studio/service"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Studio Handler
// ============================================================

// ExportLog — журнал экспортов (SQLite в проде, фейк в тестах).
type ExportLog interface {
	Record(ctx context.Context, rec *models.ExportRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ExportRecord, error)
}

type StudioHandler struct {
	registry    *service.Registry
	exports     ExportLog
	storage     *export.FileStorage
	svg         *export.SVGRenderer
	identity    service.Identity
	importScale float64
	log         *zap.Logger
	now         func() time.Time
}

type Config struct {
	Registry    *service.Registry
	Exports     ExportLog
	Storage     *export.FileStorage
	Identity    service.Identity
	ImportScale float64
	Logger      *zap.Logger
}

func NewStudioHandler(cfg Config) *StudioHandler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ImportScale <= 0 {
		cfg.ImportScale = 1
	}
	return &StudioHandler{
		registry:    cfg.Registry,
		exports:     cfg.Exports,
		storage:     cfg.Storage,
		svg:         export.NewSVGRenderer(catalog.IconFor),
		identity:    cfg.Identity,
		importScale: cfg.ImportScale,
		log:         cfg.Logger,
		now:         time.Now,
	}
}

// Register вешает маршруты студии на router.
func (h *StudioHandler) Register(r fiber.Router) {
	r.Use(h.Authenticate)

	r.Get("/templates", h.ListTemplates)
	r.Post("/templates/import", h.ImportTemplate)
	r.Get("/catalog", h.ListCatalog)

	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/:id/scene", h.GetScene)
	r.Delete("/sessions/:id", h.CloseSession)
	r.Post("/sessions/:id/events", h.HandleEvent)
	r.Post("/sessions/:id/actions/:action", h.HandleAction)
	r.Get("/sessions/:id/render.png", h.RenderPNG)
	r.Post("/sessions/:id/export", h.Export)

	r.Get("/exports", h.ListExports)
	r.Get("/exports/:filename", h.DownloadExport)
}

// ============================================================
// Identity
// ============================================================

const userIDKey = "userID"

// Authenticate разрешает bearer-токен через auth-сервис. Без заголовка
// пользователь анонимный, с неверным токеном — 401.
func (h *StudioHandler) Authenticate(c fiber.Ctx) error {
	auth := c.Get("Authorization")
	if auth == "" || h.identity == nil {
		c.Locals(userIDKey, service.AnonymousUser)
		return c.Next()
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID, ok, err := h.identity.Resolve(ctx, strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		h.log.Warn("identity resolve failed", zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "auth service unavailable"})
	}
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	c.Locals(userIDKey, userID)
	return c.Next()
}

func userID(c fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok && id != "" {
		return id
	}
	return service.AnonymousUser
}

// ============================================================
// Errors
// ============================================================

func (h *StudioHandler) fail(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, catalog.ErrUnknownTemplate),
		errors.Is(err, editor.ErrUnknownAnnotation),
		errors.Is(err, editor.ErrClosed):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, catalog.ErrUnknownItem),
		errors.Is(err, editor.ErrNothingSelected):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrDuplicateTemplate):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
