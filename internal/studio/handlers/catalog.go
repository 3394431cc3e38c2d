package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"design-studio/internal/studio/catalog"
	"design-studio/internal/studio/parser"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Templates & furniture catalog
// ============================================================

func (h *StudioHandler) ListTemplates(c fiber.Ctx) error {
	return c.JSON(h.registry.Templates().All())
}

func (h *StudioHandler) ListCatalog(c fiber.Ctx) error {
	return c.JSON(catalog.Furniture())
}

// ImportTemplate принимает SVG (multipart, поле file) и регистрирует из него
// шаблон. Поля формы: name, scale (мм на единицу SVG).
func (h *StudioHandler) ImportTemplate(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required in multipart/form-data")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".svg") {
		return badRequest(c, "only svg allowed")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	elements, err := parser.ParseSVG(f)
	if err != nil {
		return badRequest(c, err.Error())
	}

	scale := h.importScale
	if v, err := strconv.ParseFloat(c.FormValue("scale"), 64); err == nil && v > 0 {
		scale = v
	}
	name := c.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(fileHeader.Filename, ".svg")
	}

	id := "import-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	tpl, err := parser.ToTemplate(id, name, elements, scale)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.registry.Templates().Add(tpl); err != nil {
		return h.fail(c, err)
	}

	h.log.Info("template imported",
		zap.String("template", id),
		zap.Int("walls", len(tpl.Walls)),
		zap.Int("doors", len(tpl.Doors)),
		zap.Int("windows", len(tpl.Windows)),
	)
	return c.Status(http.StatusCreated).JSON(tpl)
}
