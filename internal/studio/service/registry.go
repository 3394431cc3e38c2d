package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"design-studio/internal/studio/catalog"
	"design-studio/internal/studio/editor"
	"design-studio/internal/studio/models"
	"design-studio/internal/studio/render"
	"design-studio/internal/studio/viewport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Session Registry
// ============================================================

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("session belongs to another user")
)

// Session — один открытый редактор. Редактор однопоточный, поэтому все
// обращения к нему идут под mu.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	mu     sync.Mutex
	editor *editor.Editor
}

type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	templates *catalog.Library
	width     int
	height    int
	font      *render.FontSource
	log       *zap.Logger
}

type RegistryConfig struct {
	Width     int
	Height    int
	Templates *catalog.Library
	Font      *render.FontSource
	Logger    *zap.Logger
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Templates == nil {
		cfg.Templates = catalog.NewLibrary()
	}
	return &Registry{
		sessions:  make(map[string]*Session),
		templates: cfg.Templates,
		width:     cfg.Width,
		height:    cfg.Height,
		font:      cfg.Font,
		log:       cfg.Logger,
	}
}

func (r *Registry) Templates() *catalog.Library {
	return r.templates
}

// Create открывает редактор выбранного шаблона для пользователя.
func (r *Registry) Create(userID, templateID string) (*Session, error) {
	tpl, ok := r.templates.ByID(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownTemplate, templateID)
	}

	id := uuid.NewString()
	ed, err := editor.New(tpl, editor.Options{
		Width:   r.width,
		Height:  r.height,
		Fonts:   r.font.Fonts(),
		IDs:     catalog.NewIDGenerator(),
		Logger:  r.log,
		Session: id,
	})
	if err != nil {
		return nil, fmt.Errorf("create editor: %w", err)
	}

	s := &Session{ID: id, UserID: userID, CreatedAt: time.Now().UTC(), editor: ed}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.Info("session created",
		zap.String("session", id),
		zap.String("user_id", userID),
		zap.String("template", templateID),
	)
	return s, nil
}

// Get возвращает сессию пользователя.
func (r *Registry) Get(id, userID string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.UserID != userID {
		return nil, ErrForbidden
	}
	return s, nil
}

// With выполняет fn под замком сессии.
func (r *Registry) With(id, userID string, fn func(*editor.Editor) error) error {
	s, err := r.Get(id, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editor.Closed() {
		return ErrSessionNotFound
	}
	return fn(s.editor)
}

// Close закрывает редактор и удаляет сессию.
func (r *Registry) Close(id, userID string) error {
	s, err := r.Get(id, userID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	s.mu.Lock()
	s.editor.Close()
	s.mu.Unlock()

	r.log.Info("session closed", zap.String("session", id))
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll закрывает все сессии при остановке сервиса.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		s.editor.Close()
		s.mu.Unlock()
	}
}

// ============================================================
// Helpers
// ============================================================

// Snapshot — состояние сессии для ответа API.
type Snapshot struct {
	ID             string           `json:"id"`
	TemplateID     string           `json:"templateId"`
	Scene          models.Scene     `json:"scene"`
	View           viewport.View    `json:"view"`
	Selection      models.Selection `json:"selection"`
	State          string           `json:"state"`
	ShowDimensions bool             `json:"showDimensions"`
	CanUndo        bool             `json:"canUndo"`
	CanRedo        bool             `json:"canRedo"`
}

func SnapshotOf(id string, e *editor.Editor) Snapshot {
	return Snapshot{
		ID:             id,
		TemplateID:     e.TemplateID(),
		Scene:          e.Scene(),
		View:           e.View(),
		Selection:      e.Selection(),
		State:          e.State().String(),
		ShowDimensions: e.ShowDimensions(),
		CanUndo:        e.CanUndo(),
		CanRedo:        e.CanRedo(),
	}
}
