package editor

import (
	"fmt"
	"math"

	"design-studio/internal/studio/catalog"
	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"

	"go.uber.org/zap"
)

const buttonZoomStep = 1.2

// ============================================================
// Toolbar actions
// ============================================================

func (e *Editor) ZoomIn() {
	if e.closed {
		return
	}
	e.view.ZoomBy(buttonZoomStep)
	e.redraw()
}

func (e *Editor) ZoomOut() {
	if e.closed {
		return
	}
	e.view.ZoomBy(1 / buttonZoomStep)
	e.redraw()
}

// DeleteSelected удаляет выделенную мебель или заметку.
func (e *Editor) DeleteSelected() error {
	if e.closed {
		return ErrClosed
	}
	e.validateSelection()
	if e.selection.Empty() {
		e.redraw()
		return ErrNothingSelected
	}

	switch e.selection.Kind {
	case models.SelectFurniture:
		i := e.scene.FurnitureIndex(e.selection.ID)
		e.scene.Furniture = append(e.scene.Furniture[:i], e.scene.Furniture[i+1:]...)
	case models.SelectAnnotation:
		i := e.scene.AnnotationIndex(e.selection.ID)
		e.scene.Annotations = append(e.scene.Annotations[:i], e.scene.Annotations[i+1:]...)
	}

	e.log.Debug("selection deleted", zap.String("kind", string(e.selection.Kind)), zap.String("id", e.selection.ID))
	e.selection = models.Selection{}
	e.state = Idle
	e.commit("delete")
	e.redraw()
	return nil
}

// RotateSelected поворачивает мебель на 90° и меняет местами W и H.
func (e *Editor) RotateSelected() error {
	if e.closed {
		return ErrClosed
	}
	e.validateSelection()
	if e.selection.Kind != models.SelectFurniture {
		return fmt.Errorf("rotate: %w", ErrNothingSelected)
	}

	f := &e.scene.Furniture[e.scene.FurnitureIndex(e.selection.ID)]
	f.Rot = math.Mod(f.Rot+90, 360)
	f.W, f.H = f.H, f.W

	e.commit("rotate")
	e.redraw()
	return nil
}

// AddFurniture ставит предмет каталога в центр видимой области
// с привязкой к сетке и выделяет его.
func (e *Editor) AddFurniture(itemID string) (models.Furniture, error) {
	if e.closed {
		return models.Furniture{}, ErrClosed
	}
	item, ok := catalog.FurnitureByID(itemID)
	if !ok {
		return models.Furniture{}, fmt.Errorf("%w: %s", catalog.ErrUnknownItem, itemID)
	}

	c := e.view.Center()
	f := models.Furniture{
		ID:     e.ids.Next("furn"),
		X:      geometry.Snap(c.X-item.WidthMM/2, geometry.GridSize),
		Y:      geometry.Snap(c.Y-item.HeightMM/2, geometry.GridSize),
		W:      item.WidthMM,
		H:      item.HeightMM,
		TypeID: item.ID,
		Label:  item.Name,
	}

	e.scene.Furniture = append(e.scene.Furniture, f)
	e.selection = models.Selection{Kind: models.SelectFurniture, ID: f.ID}
	e.state = Idle
	e.commit("furniture added")
	e.redraw()
	return f, nil
}

// ArmNote включает режим добавления заметки: следующий PointerDown
// ставит пин.
func (e *Editor) ArmNote() {
	if e.closed {
		return
	}
	if e.state == DraggingEntity || e.state == Panning {
		e.PointerUp()
	}
	e.state = PlacingAnnotation
}

func (e *Editor) SetNoteText(id, text string) error {
	if e.closed {
		return ErrClosed
	}
	i := e.scene.AnnotationIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAnnotation, id)
	}
	if e.scene.Annotations[i].Text == text {
		return nil
	}

	e.scene.Annotations[i].Text = text
	e.commit("note text")
	e.redraw()
	return nil
}

// Undo заменяет сцену предыдущим снапшотом. На границе истории — no-op.
func (e *Editor) Undo() bool {
	if e.closed {
		return false
	}
	scene, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(scene)
	return true
}

func (e *Editor) Redo() bool {
	if e.closed {
		return false
	}
	scene, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(scene)
	return true
}

func (e *Editor) restore(scene models.Scene) {
	e.scene = scene
	e.state = Idle
	e.validateSelection()
	e.redraw()
	e.log.Debug("history restored", zap.Int("cursor", e.history.Cursor()))
}

func (e *Editor) ToggleDimensions() bool {
	if e.closed {
		return false
	}
	e.options.ShowDimensions = !e.options.ShowDimensions
	e.redraw()
	return e.options.ShowDimensions
}
