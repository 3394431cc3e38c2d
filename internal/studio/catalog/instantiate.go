package catalog

import (
	"fmt"
	"strings"
	"sync/atomic"

	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"

	"github.com/google/uuid"
)

// ============================================================
// ID Generator
// ============================================================

// IDGenerator выдаёт уникальные в пределах сессии идентификаторы:
// монотонный счётчик плюс соль генератора.
type IDGenerator struct {
	salt    string
	counter atomic.Uint64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{salt: strings.SplitN(uuid.NewString(), "-", 2)[0]}
}

// NewIDGeneratorWithSalt нужен для воспроизводимых идентификаторов в тестах.
func NewIDGeneratorWithSalt(salt string) *IDGenerator {
	return &IDGenerator{salt: salt}
}

func (g *IDGenerator) Next(prefix string) string {
	n := g.counter.Add(1)
	return fmt.Sprintf("%s_%d_%s", prefix, n, g.salt)
}

// ============================================================
// Instantiation
// ============================================================

// Instantiate собирает сцену из шаблона: новые id стен, двери и окна
// привязываются к стенам по индексу. Индекс вне диапазона даёт проём
// с пустым WallID — он не рисуется, но и не ломает сцену.
func Instantiate(t models.Template, ids *IDGenerator) models.Scene {
	scene := models.Scene{
		Walls:       make([]models.Wall, 0, len(t.Walls)),
		Doors:       make([]models.Door, 0, len(t.Doors)),
		Windows:     make([]models.Window, 0, len(t.Windows)),
		Furniture:   []models.Furniture{},
		Rooms:       make([]models.RoomLabel, 0, len(t.Rooms)),
		Annotations: []models.Annotation{},
	}

	for _, ws := range t.Walls {
		scene.Walls = append(scene.Walls, models.Wall{
			ID:        ids.Next("wall"),
			P1:        ws.P1,
			P2:        ws.P2,
			Thickness: ws.Thickness,
		})
	}

	resolve := func(idx int) string {
		if idx < 0 || idx >= len(scene.Walls) {
			return ""
		}
		return scene.Walls[idx].ID
	}

	for _, d := range t.Doors {
		scene.Doors = append(scene.Doors, models.Door{
			ID:        ids.Next("door"),
			WallID:    resolve(d.Wall),
			Pos:       geometry.ClampPos(d.Pos),
			Width:     d.Width,
			FlipSide:  d.FlipSide,
			FlipSwing: d.FlipSwing,
		})
	}

	for _, w := range t.Windows {
		scene.Windows = append(scene.Windows, models.Window{
			ID:     ids.Next("win"),
			WallID: resolve(w.Wall),
			Pos:    geometry.ClampPos(w.Pos),
			Width:  w.Width,
		})
	}

	scene.Rooms = append(scene.Rooms, t.Rooms...)

	return scene
}
