package editor

import (
	"errors"
	"fmt"
	"image"

	"design-studio/internal/studio/catalog"
	"design-studio/internal/studio/history"
	"design-studio/internal/studio/models"
	"design-studio/internal/studio/render"
	"design-studio/internal/studio/viewport"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

var (
	ErrNothingSelected   = errors.New("nothing selected")
	ErrUnknownAnnotation = errors.New("unknown annotation")
	ErrClosed            = errors.New("editor closed")
)

// ============================================================
// State
// ============================================================

type State int

const (
	Idle State = iota
	Panning
	DraggingEntity
	PlacingAnnotation
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case DraggingEntity:
		return "dragging"
	case PlacingAnnotation:
		return "placing-annotation"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ============================================================
// Editor
// ============================================================

type Options struct {
	Width   int
	Height  int
	Fonts   *render.Fonts
	IDs     *catalog.IDGenerator
	Logger  *zap.Logger
	Session string
}

// Editor — единственный владелец сцены, вида, выделения и истории.
// Не потокобезопасен: вызовы одной сессии сериализуются снаружи.
type Editor struct {
	scene     models.Scene
	view      viewport.View
	selection models.Selection
	state     State
	options   render.Options

	history  *history.Manager
	surface  *gg.Context
	renderer *render.Renderer
	ids      *catalog.IDGenerator
	log      *zap.Logger

	grab      models.Point // смещение указателя от позиции сущности
	panAnchor models.Point // экранная точка последнего move при панорамировании
	dragFrom  models.Point
	pinchDist float64

	templateID string
	closed     bool
}

// New создаёт сцену из шаблона, вписывает её в поверхность и кладёт
// исходное состояние в историю.
func New(tpl models.Template, opts Options) (*Editor, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", opts.Width, opts.Height)
	}
	if opts.IDs == nil {
		opts.IDs = catalog.NewIDGenerator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	e := &Editor{
		scene:      catalog.Instantiate(tpl, opts.IDs),
		view:       viewport.New(opts.Width, opts.Height),
		history:    history.New(),
		surface:    gg.NewContext(opts.Width, opts.Height),
		renderer:   render.NewRenderer(opts.Fonts, catalog.IconFor),
		ids:        opts.IDs,
		log:        opts.Logger.With(zap.String("session", opts.Session), zap.String("template", tpl.ID)),
		templateID: tpl.ID,
	}
	e.view.Fit(e.scene.Walls)

	if err := e.history.Push(e.scene); err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}
	e.redraw()

	e.log.Debug("editor created",
		zap.Int("walls", len(e.scene.Walls)),
		zap.Float64("zoom", e.view.Zoom),
	)
	return e, nil
}

// ============================================================
// Accessors
// ============================================================

// Scene возвращает независимую копию текущей сцены.
func (e *Editor) Scene() models.Scene { return history.Clone(e.scene) }

func (e *Editor) View() viewport.View { return e.view }

func (e *Editor) Selection() models.Selection { return e.selection }

func (e *Editor) State() State { return e.state }

func (e *Editor) TemplateID() string { return e.templateID }

func (e *Editor) ShowDimensions() bool { return e.options.ShowDimensions }

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

func (e *Editor) HistoryLen() int { return e.history.Len() }

func (e *Editor) Closed() bool { return e.closed }

// Image — текущая поверхность как есть, с сеткой и выделением.
func (e *Editor) Image() image.Image {
	if e.surface == nil {
		return nil
	}
	return e.surface.Image()
}

// ============================================================
// Internals
// ============================================================

func (e *Editor) redraw() {
	if e.surface == nil {
		return
	}
	e.renderer.Render(e.surface, render.Frame{
		Scene:     &e.scene,
		View:      e.view,
		Selection: e.selection,
		Options:   e.options,
	})
}

// commit кладёт снапшот в историю. Ошибка снапшота не откатывает правку,
// а только пишется в лог.
func (e *Editor) commit(action string) {
	if err := e.history.Push(e.scene); err != nil {
		e.log.Warn("history push failed", zap.String("action", action), zap.Error(err))
		return
	}
	e.log.Debug(action,
		zap.Int("history", e.history.Len()),
		zap.Int("cursor", e.history.Cursor()),
	)
}

// validateSelection снимает выделение, если сущности уже нет в сцене.
func (e *Editor) validateSelection() {
	switch e.selection.Kind {
	case models.SelectFurniture:
		if e.scene.FurnitureIndex(e.selection.ID) < 0 {
			e.selection = models.Selection{}
		}
	case models.SelectAnnotation:
		if e.scene.AnnotationIndex(e.selection.ID) < 0 {
			e.selection = models.Selection{}
		}
	default:
		e.selection = models.Selection{}
	}
}

// Close освобождает поверхность и историю. Дальнейшие события игнорируются.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.state = Idle
	e.selection = models.Selection{}
	e.surface = nil
	e.history = history.New()
	e.log.Debug("editor closed")
}
