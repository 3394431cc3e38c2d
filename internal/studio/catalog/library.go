package catalog

import (
	"errors"
	"fmt"
	"sync"

	"design-studio/internal/studio/models"
)

var ErrDuplicateTemplate = errors.New("template already exists")

// Library — встроенные шаблоны плюс импортированные из SVG за время
// работы сервиса. Импортированные живут только в памяти.
type Library struct {
	mu       sync.RWMutex
	imported []models.Template
}

func NewLibrary() *Library {
	return &Library{}
}

func (l *Library) All() []models.Template {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := Templates()
	return append(out, l.imported...)
}

func (l *Library) ByID(id string) (models.Template, bool) {
	if t, ok := TemplateByID(id); ok {
		return t, true
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.imported {
		if t.ID == id {
			return t, true
		}
	}
	return models.Template{}, false
}

func (l *Library) Add(t models.Template) error {
	if t.ID == "" {
		return fmt.Errorf("template id required")
	}
	if _, ok := l.ByID(t.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTemplate, t.ID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.imported = append(l.imported, t)
	return nil
}
