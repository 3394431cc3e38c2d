package handlers

import (
	"encoding/json"
	"net/http"

	"design-studio/internal/studio/editor"
	"design-studio/internal/studio/models"
	"design-studio/internal/studio/service"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Sessions
// ============================================================

type createSessionRequest struct {
	TemplateID string `json:"templateId"`
}

// CreateSession открывает редактор по шаблону.
func (h *StudioHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if req.TemplateID == "" {
		return badRequest(c, "templateId required")
	}

	s, err := h.registry.Create(userID(c), req.TemplateID)
	if err != nil {
		return h.fail(c, err)
	}

	var snap service.Snapshot
	err = h.registry.With(s.ID, s.UserID, func(e *editor.Editor) error {
		snap = service.SnapshotOf(s.ID, e)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(snap)
}

func (h *StudioHandler) GetScene(c fiber.Ctx) error {
	return h.withSnapshot(c, func(*editor.Editor) error { return nil })
}

// CloseSession — возврат к выбору шаблона.
func (h *StudioHandler) CloseSession(c fiber.Ctx) error {
	if err := h.registry.Close(c.Params("id"), userID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// withSnapshot выполняет fn над редактором сессии и отвечает её состоянием.
func (h *StudioHandler) withSnapshot(c fiber.Ctx, fn func(*editor.Editor) error) error {
	id := c.Params("id")

	var snap service.Snapshot
	err := h.registry.With(id, userID(c), func(e *editor.Editor) error {
		if err := fn(e); err != nil {
			return err
		}
		snap = service.SnapshotOf(id, e)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(snap)
}

// ============================================================
// Pointer / touch / wheel events
// ============================================================

type eventRequest struct {
	Type   string         `json:"type"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Points []models.Point `json:"points"`
	DeltaY float64        `json:"deltaY"`
}

// HandleEvent прокидывает событие ввода в конечный автомат редактора.
func (h *StudioHandler) HandleEvent(c fiber.Ctx) error {
	var req eventRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}

	var apply func(*editor.Editor)
	switch req.Type {
	case "down":
		apply = func(e *editor.Editor) { e.PointerDown(req.X, req.Y) }
	case "move":
		apply = func(e *editor.Editor) { e.PointerMove(req.X, req.Y) }
	case "up":
		apply = func(e *editor.Editor) { e.PointerUp() }
	case "cancel":
		apply = func(e *editor.Editor) { e.PointerCancel() }
	case "touch":
		apply = func(e *editor.Editor) { e.Touch(req.Points) }
	case "wheel":
		apply = func(e *editor.Editor) { e.Wheel(req.DeltaY) }
	default:
		return badRequest(c, "unknown event type")
	}

	return h.withSnapshot(c, func(e *editor.Editor) error {
		apply(e)
		return nil
	})
}

// ============================================================
// Toolbar actions
// ============================================================

type actionRequest struct {
	ItemID string `json:"itemId"`
	ID     string `json:"id"`
	Text   string `json:"text"`
}

func (h *StudioHandler) HandleAction(c fiber.Ctx) error {
	var req actionRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return badRequest(c, "invalid json")
		}
	}

	action := c.Params("action")
	var apply func(*editor.Editor) error
	switch action {
	case "undo":
		apply = func(e *editor.Editor) error { e.Undo(); return nil }
	case "redo":
		apply = func(e *editor.Editor) error { e.Redo(); return nil }
	case "delete":
		apply = func(e *editor.Editor) error { return e.DeleteSelected() }
	case "rotate":
		apply = func(e *editor.Editor) error { return e.RotateSelected() }
	case "zoom-in":
		apply = func(e *editor.Editor) error { e.ZoomIn(); return nil }
	case "zoom-out":
		apply = func(e *editor.Editor) error { e.ZoomOut(); return nil }
	case "note":
		apply = func(e *editor.Editor) error { e.ArmNote(); return nil }
	case "dimensions":
		apply = func(e *editor.Editor) error { e.ToggleDimensions(); return nil }
	case "furniture":
		if req.ItemID == "" {
			return badRequest(c, "itemId required")
		}
		apply = func(e *editor.Editor) error {
			_, err := e.AddFurniture(req.ItemID)
			return err
		}
	case "note-text":
		if req.ID == "" {
			return badRequest(c, "id required")
		}
		apply = func(e *editor.Editor) error { return e.SetNoteText(req.ID, req.Text) }
	default:
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "unknown action"})
	}

	h.log.Debug("action", zap.String("session", c.Params("id")), zap.String("action", action))
	return h.withSnapshot(c, apply)
}
