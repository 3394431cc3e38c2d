package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"design-studio/internal/auth/models"
	"design-studio/internal/auth/repository"
	"design-studio/internal/auth/service"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Auth Handler
// ============================================================

type UserStore interface {
	GetByCredentials(ctx context.Context, login, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type AuthHandler struct {
	users    UserStore
	sessions *service.SessionManager
	log      *zap.Logger
}

func NewAuthHandler(users UserStore, sessions *service.SessionManager, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

// Register вешает публичные и внутренние маршруты.
func (h *AuthHandler) Register(r fiber.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
	r.Get("/users/:id", h.GetUser)

	// Internal routes (для межсервисного общения)
	r.Get("/internal/sessions/:token", h.ResolveSession)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login выдает токен по паре login/password.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var req loginRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if req.Login == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "login and password required"})
	}

	user, err := h.users.GetByCredentials(context.Background(), req.Login, req.Password)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.Error("login lookup failed", zap.String("login", req.Login), zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		h.log.Info("login rejected", zap.String("login", req.Login))
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token := h.sessions.Issue(user.ID)
	h.log.Info("login", zap.String("user_id", user.ID))

	return c.JSON(loginResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token, ok := bearer(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	h.sessions.Revoke(token)
	return c.SendStatus(http.StatusNoContent)
}

// Me возвращает владельца токена.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return h.sendUser(c, userID)
}

// GetUser возвращает данные пользователя; чужие профили закрыты.
func (h *AuthHandler) GetUser(c fiber.Ctx) error {
	userID, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	targetID := c.Params("id")
	if targetID == "" || targetID != userID {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
	return h.sendUser(c, targetID)
}

// ResolveSession — внутренний маршрут для студии: токен -> userId.
func (h *AuthHandler) ResolveSession(c fiber.Ctx) error {
	userID, ok := h.sessions.Resolve(c.Params("token"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(fiber.Map{"userId": userID})
}

// ============================================================
// Helpers
// ============================================================

func (h *AuthHandler) sendUser(c fiber.Ctx, id string) error {
	user, err := h.users.GetByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		h.log.Error("user lookup failed", zap.String("user_id", id), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(user)
}

func bearer(c fiber.Ctx) (string, bool) {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

func (h *AuthHandler) authorize(c fiber.Ctx) (string, bool) {
	token, ok := bearer(c)
	if !ok {
		return "", false
	}
	return h.sessions.Resolve(token)
}
