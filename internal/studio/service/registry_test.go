package service

import (
	"sync"
	"testing"

	"design-studio/internal/studio/catalog"
	"design-studio/internal/studio/editor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry() *Registry {
	return NewRegistry(RegistryConfig{Width: 320, Height: 240, Logger: zap.NewNop()})
}

func TestRegistry_CreateGetClose(t *testing.T) {
	r := newRegistry()

	s, err := r.Create("user-1", "single-room")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID, "user-1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get(s.ID, "user-2")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, r.Close(s.ID, "user-1"))
	assert.Equal(t, 0, r.Len())

	_, err = r.Get(s.ID, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.Close(s.ID, "user-1"), ErrSessionNotFound)
}

func TestRegistry_UnknownTemplate(t *testing.T) {
	_, err := newRegistry().Create("u", "castle")
	assert.ErrorIs(t, err, catalog.ErrUnknownTemplate)
}

func TestRegistry_ImportedTemplate(t *testing.T) {
	r := newRegistry()
	tpl, _ := catalog.TemplateByID("single-room")
	tpl.ID = "my-plan"
	require.NoError(t, r.Templates().Add(tpl))

	s, err := r.Create("u", "my-plan")
	require.NoError(t, err)
	assert.Equal(t, "my-plan", SnapshotOf(s.ID, s.editor).TemplateID)
}

func TestRegistry_WithSerializesAccess(t *testing.T) {
	r := newRegistry()
	s, err := r.Create("u", "single-room")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.With(s.ID, "u", func(e *editor.Editor) error {
				_, err := e.AddFurniture("plant")
				return err
			})
		}()
	}
	wg.Wait()

	err = r.With(s.ID, "u", func(e *editor.Editor) error {
		assert.Len(t, e.Scene().Furniture, 20)
		assert.Equal(t, 21, e.HistoryLen())
		return nil
	})
	require.NoError(t, err)
}

func TestSnapshotOf(t *testing.T) {
	r := newRegistry()
	s, err := r.Create("u", "single-room")
	require.NoError(t, err)

	err = r.With(s.ID, "u", func(e *editor.Editor) error {
		snap := SnapshotOf(s.ID, e)
		assert.Equal(t, s.ID, snap.ID)
		assert.Equal(t, "idle", snap.State)
		assert.Len(t, snap.Scene.Walls, 4)
		assert.False(t, snap.CanUndo)
		assert.Equal(t, 320, snap.View.Width)
		return nil
	})
	require.NoError(t, err)
}

func TestRegistry_CloseAll(t *testing.T) {
	r := newRegistry()
	s, err := r.Create("u", "single-room")
	require.NoError(t, err)

	r.CloseAll()
	assert.Equal(t, 0, r.Len())
	assert.True(t, s.editor.Closed())
}
