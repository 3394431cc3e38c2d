package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"design-studio/internal/studio/editor"
	"design-studio/internal/studio/export"
	"design-studio/internal/studio/models"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Raster surface & export
// ============================================================

// RenderPNG отдаёт текущую поверхность редактора.
func (h *StudioHandler) RenderPNG(c fiber.Ctx) error {
	var data []byte
	err := h.registry.With(c.Params("id"), userID(c), func(e *editor.Editor) error {
		var err error
		data, err = export.PNGBytes(e.Image())
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}

	c.Set("Content-Type", "image/png")
	c.Set("Cache-Control", "no-store")
	return c.Send(data)
}

// Export сохраняет PNG текущей поверхности или SVG плана под уникальным
// именем и пишет запись в журнал.
func (h *StudioHandler) Export(c fiber.Ctx) error {
	format := c.Query("format", "png")
	if format != "png" && format != "svg" {
		return badRequest(c, "format must be png or svg")
	}

	sessionID := c.Params("id")
	user := userID(c)
	rec := models.ExportRecord{SessionID: sessionID, UserID: user, Format: format}

	var data []byte
	err := h.registry.With(sessionID, user, func(e *editor.Editor) error {
		if format == "svg" {
			scene := e.Scene()
			out, err := h.svg.Render(&scene)
			data = []byte(out)
			return err
		}

		img := e.Image()
		var err error
		data, err = export.PNGBytes(img)
		if err == nil {
			rec.Width, rec.Height = img.Bounds().Dx(), img.Bounds().Dy()
		}
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}

	rec.CreatedAt = h.now().UTC()
	name, err := h.storage.Save(user, export.Filename("design", format, rec.CreatedAt), data)
	if err != nil {
		return h.fail(c, err)
	}
	rec.Filename = name

	if h.exports != nil {
		if err := h.exports.Record(context.Background(), &rec); err != nil {
			// файл уже записан, журнал вторичен
			h.log.Warn("export log failed", zap.String("filename", name), zap.Error(err))
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":       rec.ID,
		"filename": name,
		"format":   format,
		"url":      "/exports/" + name,
	})
}

// ListExports — журнал экспортов текущего пользователя.
func (h *StudioHandler) ListExports(c fiber.Ctx) error {
	if h.exports == nil {
		return c.JSON([]models.ExportRecord{})
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := h.exports.ListByUser(context.Background(), userID(c), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(records)
}

// DownloadExport отдаёт ранее сохранённый файл пользователя.
func (h *StudioHandler) DownloadExport(c fiber.Ctx) error {
	path, err := h.storage.Path(userID(c), c.Params("filename"))
	if err != nil {
		if errors.Is(err, export.ErrInvalidName) {
			return badRequest(c, "invalid filename")
		}
		return h.fail(c, err)
	}
	if _, err := os.Stat(path); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	return c.SendFile(path)
}
