package editor

import (
	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"

	"go.uber.org/zap"
)

const (
	AnnotationHitRadius = 300.0 // мм

	wheelZoomIn  = 1.1
	wheelZoomOut = 0.9
)

// ============================================================
// Pointer state machine
// ============================================================

// PointerDown проверяет цели строго по приоритету: режим заметки,
// мебель сверху вниз, заметки по радиусу, иначе панорамирование.
func (e *Editor) PointerDown(sx, sy float64) {
	if e.closed {
		return
	}
	if e.state == DraggingEntity || e.state == Panning {
		e.PointerUp()
	}

	world := e.view.ScreenToWorld(sx, sy)

	if e.state == PlacingAnnotation {
		e.placeAnnotation(world)
		return
	}

	for i := len(e.scene.Furniture) - 1; i >= 0; i-- {
		f := e.scene.Furniture[i]
		if geometry.ContainsAxisAligned(f, world) {
			e.startDrag(models.SelectFurniture, f.ID, world, models.Point{X: f.X, Y: f.Y})
			return
		}
	}

	for _, a := range e.scene.Annotations {
		if geometry.Distance(world, models.Point{X: a.X, Y: a.Y}) < AnnotationHitRadius {
			e.startDrag(models.SelectAnnotation, a.ID, world, models.Point{X: a.X, Y: a.Y})
			return
		}
	}

	e.selection = models.Selection{}
	e.state = Panning
	e.panAnchor = models.Point{X: sx, Y: sy}
	e.redraw()
}

func (e *Editor) placeAnnotation(world models.Point) {
	p := geometry.SnapPoint(world, geometry.GridSize)
	a := models.Annotation{ID: e.ids.Next("note"), X: p.X, Y: p.Y}

	e.scene.Annotations = append(e.scene.Annotations, a)
	e.selection = models.Selection{Kind: models.SelectAnnotation, ID: a.ID}
	e.state = Idle
	e.commit("annotation placed")
	e.redraw()
}

func (e *Editor) startDrag(kind models.SelectionKind, id string, world, pos models.Point) {
	e.selection = models.Selection{Kind: kind, ID: id}
	e.state = DraggingEntity
	e.grab = models.Point{X: world.X - pos.X, Y: world.Y - pos.Y}
	e.dragFrom = pos
	e.redraw()
}

// PointerMove двигает захваченную сущность с привязкой к сетке или сдвигает вид.
func (e *Editor) PointerMove(sx, sy float64) {
	if e.closed {
		return
	}

	switch e.state {
	case DraggingEntity:
		world := e.view.ScreenToWorld(sx, sy)
		pos := geometry.SnapPoint(models.Point{X: world.X - e.grab.X, Y: world.Y - e.grab.Y}, geometry.GridSize)
		if !e.moveSelected(pos) {
			e.selection = models.Selection{}
			e.state = Idle
		}
		e.redraw()

	case Panning:
		e.view.Pan(sx-e.panAnchor.X, sy-e.panAnchor.Y)
		e.panAnchor = models.Point{X: sx, Y: sy}
		e.redraw()
	}
}

func (e *Editor) moveSelected(pos models.Point) bool {
	switch e.selection.Kind {
	case models.SelectFurniture:
		if i := e.scene.FurnitureIndex(e.selection.ID); i >= 0 {
			e.scene.Furniture[i].X, e.scene.Furniture[i].Y = pos.X, pos.Y
			return true
		}
	case models.SelectAnnotation:
		if i := e.scene.AnnotationIndex(e.selection.ID); i >= 0 {
			e.scene.Annotations[i].X, e.scene.Annotations[i].Y = pos.X, pos.Y
			return true
		}
	}
	return false
}

func (e *Editor) selectedPosition() (models.Point, bool) {
	switch e.selection.Kind {
	case models.SelectFurniture:
		if i := e.scene.FurnitureIndex(e.selection.ID); i >= 0 {
			return models.Point{X: e.scene.Furniture[i].X, Y: e.scene.Furniture[i].Y}, true
		}
	case models.SelectAnnotation:
		if i := e.scene.AnnotationIndex(e.selection.ID); i >= 0 {
			return models.Point{X: e.scene.Annotations[i].X, Y: e.scene.Annotations[i].Y}, true
		}
	}
	return models.Point{}, false
}

// PointerUp завершает жест. Перетаскивание с фактическим сдвигом даёт ровно
// одну запись истории, панорамирование истории не трогает.
func (e *Editor) PointerUp() {
	if e.closed {
		return
	}

	switch e.state {
	case DraggingEntity:
		e.state = Idle
		// осознанное отступление: клик без сдвига запись в историю не добавляет
		if pos, ok := e.selectedPosition(); ok && pos != e.dragFrom {
			e.commit("entity moved")
		}
		e.redraw()
	case Panning:
		e.state = Idle
		e.log.Debug("view panned", zap.Float64("offset_x", e.view.Offset.X), zap.Float64("offset_y", e.view.Offset.Y))
	}
}

// PointerCancel обрабатывается как отпускание.
func (e *Editor) PointerCancel() {
	e.PointerUp()
	e.pinchDist = 0
}

// ============================================================
// Touch & wheel
// ============================================================

// Touch принимает активные точки касания. Две точки дают pinch-зум по
// отношению расстояний между кадрами, меньше двух сбрасывают pinch.
func (e *Editor) Touch(points []models.Point) {
	if e.closed {
		return
	}
	if len(points) < 2 {
		e.pinchDist = 0
		return
	}
	if e.state == Panning {
		e.state = Idle
	}

	d := geometry.Distance(points[0], points[1])
	if e.pinchDist > 0 && d > 0 {
		e.view.ZoomBy(d / e.pinchDist)
		e.redraw()
	}
	e.pinchDist = d
}

// Wheel: отрицательная дельта приближает, положительная отдаляет.
func (e *Editor) Wheel(deltaY float64) {
	if e.closed || deltaY == 0 {
		return
	}
	if deltaY < 0 {
		e.view.ZoomBy(wheelZoomIn)
	} else {
		e.view.ZoomBy(wheelZoomOut)
	}
	e.redraw()
}
