package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Check — проверка зависимости для readiness (ping БД, upstream и т.д.).
type Check func(ctx context.Context) error

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe прогоняет все проверки; любая ошибка даёт 503.
func ReadinessProbe(checks map[string]Check, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := fiber.Map{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		return c.Status(status).JSON(fiber.Map{
			"status": state,
			"checks": results,
		})
	}
}

// UpstreamCheck проверяет /health/live сервиса.
func UpstreamCheck(baseURL string) Check {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health/live", nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return nil
	}
}
