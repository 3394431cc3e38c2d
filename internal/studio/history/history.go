package history

import (
	"encoding/json"
	"fmt"

	"design-studio/internal/studio/models"
)

// ============================================================
// History Manager
// ============================================================

// Manager — линейная история полных снапшотов сцены с курсором.
// Новый снапшот после undo отбрасывает ветку redo.
type Manager struct {
	snapshots [][]byte
	cursor    int
}

func New() *Manager {
	return &Manager{cursor: -1}
}

// Push обрезает историю после курсора и добавляет снапшот текущей сцены.
func (m *Manager) Push(scene models.Scene) error {
	data, err := json.Marshal(scene)
	if err != nil {
		return fmt.Errorf("snapshot scene: %w", err)
	}

	m.snapshots = append(m.snapshots[:m.cursor+1], data)
	m.cursor = len(m.snapshots) - 1
	return nil
}

// Undo сдвигает курсор назад. На индексе 0 — no-op (ok == false).
func (m *Manager) Undo() (models.Scene, bool) {
	if m.cursor <= 0 {
		return models.Scene{}, false
	}
	return m.restore(m.cursor - 1)
}

// Redo сдвигает курсор вперёд. На последнем индексе — no-op.
func (m *Manager) Redo() (models.Scene, bool) {
	if m.cursor >= len(m.snapshots)-1 {
		return models.Scene{}, false
	}
	return m.restore(m.cursor + 1)
}

func (m *Manager) restore(idx int) (models.Scene, bool) {
	var scene models.Scene
	if err := json.Unmarshal(m.snapshots[idx], &scene); err != nil {
		return models.Scene{}, false
	}
	m.cursor = idx
	return normalize(scene), true
}

func (m *Manager) CanUndo() bool { return m.cursor > 0 }

func (m *Manager) CanRedo() bool { return m.cursor >= 0 && m.cursor < len(m.snapshots)-1 }

func (m *Manager) Len() int { return len(m.snapshots) }

func (m *Manager) Cursor() int { return m.cursor }

// normalize превращает nil-срезы после декодирования в пустые,
// чтобы восстановленная сцена совпадала с исходной.
func normalize(s models.Scene) models.Scene {
	if s.Walls == nil {
		s.Walls = []models.Wall{}
	}
	if s.Doors == nil {
		s.Doors = []models.Door{}
	}
	if s.Windows == nil {
		s.Windows = []models.Window{}
	}
	if s.Furniture == nil {
		s.Furniture = []models.Furniture{}
	}
	if s.Rooms == nil {
		s.Rooms = []models.RoomLabel{}
	}
	if s.Annotations == nil {
		s.Annotations = []models.Annotation{}
	}
	return s
}

// Clone делает независимую копию сцены.
func Clone(s models.Scene) models.Scene {
	return normalize(models.Scene{
		Walls:       append([]models.Wall(nil), s.Walls...),
		Doors:       append([]models.Door(nil), s.Doors...),
		Windows:     append([]models.Window(nil), s.Windows...),
		Furniture:   append([]models.Furniture(nil), s.Furniture...),
		Rooms:       append([]models.RoomLabel(nil), s.Rooms...),
		Annotations: append([]models.Annotation(nil), s.Annotations...),
	})
}
