package history

import (
	"fmt"
	"testing"

	"design-studio/internal/studio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseScene() models.Scene {
	return normalize(models.Scene{
		Walls: []models.Wall{{ID: "w1", P1: models.Point{}, P2: models.Point{X: 4000}, Thickness: 200}},
		Rooms: []models.RoomLabel{{Name: "room", Area: 14, Center: models.Point{X: 2000, Y: 1750}}},
	})
}

func TestManager_RoundTrip(t *testing.T) {
	m := New()
	scene := baseScene()
	require.NoError(t, m.Push(scene))
	pristine := Clone(scene)

	const n = 6
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			scene.Furniture = append(scene.Furniture, models.Furniture{
				ID: fmt.Sprintf("f%d", i), X: float64(i * 100), Y: 300, W: 2200, H: 900, TypeID: "sofa",
			})
		} else {
			scene.Annotations = append(scene.Annotations, models.Annotation{
				ID: fmt.Sprintf("a%d", i), X: 100, Y: float64(i * 100), Text: "note",
			})
			scene.Furniture[0].X += 100
		}
		require.NoError(t, m.Push(scene))
	}
	final := Clone(scene)

	var current models.Scene
	for i := 0; i < n; i++ {
		s, ok := m.Undo()
		require.True(t, ok)
		current = s
	}
	assert.Equal(t, pristine, current)

	_, ok := m.Undo()
	assert.False(t, ok, "undo at index 0 must be a no-op")
	assert.Equal(t, 0, m.Cursor())

	for i := 0; i < n; i++ {
		s, ok := m.Redo()
		require.True(t, ok)
		current = s
	}
	assert.Equal(t, final, current)

	_, ok = m.Redo()
	assert.False(t, ok)
}

func TestManager_RedoTruncation(t *testing.T) {
	m := New()
	scene := baseScene()
	require.NoError(t, m.Push(scene))

	scene.Annotations = append(scene.Annotations, models.Annotation{ID: "a1"})
	require.NoError(t, m.Push(scene))
	scene.Annotations = append(scene.Annotations, models.Annotation{ID: "a2"})
	require.NoError(t, m.Push(scene))

	undone, ok := m.Undo()
	require.True(t, ok)
	assert.Len(t, undone.Annotations, 1)
	assert.True(t, m.CanRedo())

	undone.Furniture = append(undone.Furniture, models.Furniture{ID: "f1", W: 100, H: 100})
	require.NoError(t, m.Push(undone))

	assert.False(t, m.CanRedo())
	_, ok = m.Redo()
	assert.False(t, ok)
	assert.Equal(t, 3, m.Len())
}

func TestManager_SnapshotsAreIndependent(t *testing.T) {
	m := New()
	scene := baseScene()
	scene.Furniture = append(scene.Furniture, models.Furniture{ID: "f1", X: 100})
	require.NoError(t, m.Push(scene))
	require.NoError(t, m.Push(scene))

	scene.Furniture[0].X = 9999

	restored, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, 100.0, restored.Furniture[0].X)
}

func TestManager_EmptyHistoryNoOps(t *testing.T) {
	m := New()
	_, ok := m.Undo()
	assert.False(t, ok)
	_, ok = m.Redo()
	assert.False(t, ok)
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}
