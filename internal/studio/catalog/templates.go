package catalog

import (
	"errors"

	"design-studio/internal/studio/models"
)

// ============================================================
// Template Catalog
// ============================================================

var ErrUnknownTemplate = errors.New("unknown template")

const (
	wallExt = 200.0 // наружные стены, мм
	wallInt = 120.0 // перегородки
)

func pt(x, y float64) models.Point {
	return models.Point{X: x, Y: y}
}

func wall(x1, y1, x2, y2, thickness float64) models.WallSpec {
	return models.WallSpec{P1: pt(x1, y1), P2: pt(x2, y2), Thickness: thickness}
}

var templates = []models.Template{
	{
		ID:   "single-room",
		Name: "Single Room",
		Walls: []models.WallSpec{
			wall(0, 0, 4000, 0, wallExt),
			wall(4000, 0, 4000, 3500, wallExt),
			wall(4000, 3500, 0, 3500, wallExt),
			wall(0, 3500, 0, 0, wallExt),
		},
		Doors: []models.OpeningSpec{
			{Wall: 2, Pos: 0.5, Width: 900},
		},
		Windows: []models.OpeningSpec{
			{Wall: 0, Pos: 0.5, Width: 1200},
		},
		Rooms: []models.RoomLabel{
			{Name: "الغرفة", Height: 3.0, Area: 14, Center: pt(2000, 1750)},
		},
	},
	{
		ID:   "studio-apartment",
		Name: "Studio Apartment",
		Walls: []models.WallSpec{
			wall(0, 0, 7000, 0, wallExt),
			wall(7000, 0, 7000, 5000, wallExt),
			wall(7000, 5000, 0, 5000, wallExt),
			wall(0, 5000, 0, 0, wallExt),
			wall(5000, 0, 5000, 2500, wallInt),
			wall(5000, 2500, 7000, 2500, wallInt),
		},
		Doors: []models.OpeningSpec{
			{Wall: 2, Pos: 0.85, Width: 1000},
			{Wall: 4, Pos: 0.75, Width: 800, FlipSide: true},
		},
		Windows: []models.OpeningSpec{
			{Wall: 0, Pos: 0.35, Width: 1800},
			{Wall: 3, Pos: 0.5, Width: 1500},
			{Wall: 1, Pos: 0.75, Width: 1200},
		},
		Rooms: []models.RoomLabel{
			{Name: "صالة", Height: 3.0, Area: 30, Center: pt(2500, 2500)},
			{Name: "حمام", Height: 2.7, Area: 5, Center: pt(6000, 1250)},
		},
	},
	{
		ID:   "two-bedroom",
		Name: "Two Bedroom Apartment",
		Walls: []models.WallSpec{
			wall(0, 0, 10000, 0, wallExt),
			wall(10000, 0, 10000, 8000, wallExt),
			wall(10000, 8000, 0, 8000, wallExt),
			wall(0, 8000, 0, 0, wallExt),
			wall(4000, 0, 4000, 4000, wallInt),
			wall(0, 4000, 4000, 4000, wallInt),
			wall(7000, 0, 7000, 4000, wallInt),
			wall(7000, 4000, 10000, 4000, wallInt),
			wall(7000, 5500, 10000, 5500, wallInt),
			wall(7000, 5500, 7000, 8000, wallInt),
		},
		Doors: []models.OpeningSpec{
			{Wall: 2, Pos: 0.45, Width: 1000},
			{Wall: 4, Pos: 0.8, Width: 900, FlipSide: true},
			{Wall: 6, Pos: 0.8, Width: 900, FlipSwing: true},
			{Wall: 9, Pos: 0.4, Width: 800, FlipSide: true, FlipSwing: true},
		},
		Windows: []models.OpeningSpec{
			{Wall: 0, Pos: 0.2, Width: 1500},
			{Wall: 0, Pos: 0.85, Width: 1500},
			{Wall: 1, Pos: 0.8, Width: 1200},
			{Wall: 3, Pos: 0.3, Width: 1500},
		},
		Rooms: []models.RoomLabel{
			{Name: "غرفة نوم 1", Height: 3.0, Area: 16, Center: pt(2000, 2000)},
			{Name: "صالة", Height: 3.0, Area: 28, Center: pt(5500, 2000)},
			{Name: "غرفة نوم 2", Height: 3.0, Area: 12, Center: pt(8500, 2000)},
			{Name: "مطبخ", Height: 3.0, Area: 32, Center: pt(3500, 6000)},
			{Name: "حمام", Height: 2.7, Area: 7.5, Center: pt(8500, 6750)},
		},
	},
}

// Templates возвращает копию встроенного каталога шаблонов.
func Templates() []models.Template {
	out := make([]models.Template, len(templates))
	copy(out, templates)
	return out
}

func TemplateByID(id string) (models.Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.Template{}, false
}
