package catalog

import (
	"errors"

	"design-studio/internal/studio/models"
)

// ============================================================
// Furniture Catalog
// ============================================================

var ErrUnknownItem = errors.New("unknown furniture item")

var furniture = []models.CatalogItem{
	{ID: "sofa", Name: "Sofa", WidthMM: 2200, HeightMM: 900, Icon: "🛋", Category: "living"},
	{ID: "armchair", Name: "Armchair", WidthMM: 900, HeightMM: 850, Icon: "🪑", Category: "living"},
	{ID: "coffee-table", Name: "Coffee table", WidthMM: 1200, HeightMM: 600, Icon: "▭", Category: "living"},
	{ID: "tv-unit", Name: "TV unit", WidthMM: 1800, HeightMM: 450, Icon: "📺", Category: "living"},
	{ID: "bed-double", Name: "Double bed", WidthMM: 1600, HeightMM: 2000, Icon: "🛏", Category: "bedroom"},
	{ID: "bed-single", Name: "Single bed", WidthMM: 900, HeightMM: 2000, Icon: "🛏", Category: "bedroom"},
	{ID: "wardrobe", Name: "Wardrobe", WidthMM: 1800, HeightMM: 600, Icon: "🚪", Category: "bedroom"},
	{ID: "desk", Name: "Desk", WidthMM: 1200, HeightMM: 600, Icon: "💻", Category: "office"},
	{ID: "dining-table", Name: "Dining table", WidthMM: 1600, HeightMM: 900, Icon: "🍽", Category: "dining"},
	{ID: "fridge", Name: "Fridge", WidthMM: 700, HeightMM: 700, Icon: "❄", Category: "kitchen"},
	{ID: "stove", Name: "Stove", WidthMM: 600, HeightMM: 600, Icon: "🔥", Category: "kitchen"},
	{ID: "bathtub", Name: "Bathtub", WidthMM: 1700, HeightMM: 750, Icon: "🛁", Category: "bathroom"},
	{ID: "toilet", Name: "Toilet", WidthMM: 400, HeightMM: 700, Icon: "🚽", Category: "bathroom"},
	{ID: "plant", Name: "Plant", WidthMM: 500, HeightMM: 500, Icon: "🪴", Category: "decor"},
}

// Furniture возвращает копию каталога мебели.
func Furniture() []models.CatalogItem {
	out := make([]models.CatalogItem, len(furniture))
	copy(out, furniture)
	return out
}

func FurnitureByID(id string) (models.CatalogItem, bool) {
	for _, item := range furniture {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// IconFor возвращает иконку типа мебели; для неизвестного типа — пустую строку.
func IconFor(typeID string) string {
	if item, ok := FurnitureByID(typeID); ok {
		return item.Icon
	}
	return ""
}
