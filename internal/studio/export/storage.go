package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================
// File Storage
// ============================================================

const maxNameAttempts = 100

var ErrInvalidName = errors.New("invalid file name")

type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) UserDir(userID string) string {
	return filepath.Join(s.root, safeSegment(userID))
}

func (s *FileStorage) EnsureDir(userID string) error {
	path := s.UserDir(userID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir user dir: %w", err)
	}
	return nil
}

// Save пишет файл, не перезаписывая существующий: при совпадении имени
// добавляется суффикс -1, -2, ... Возвращает итоговое имя файла.
func (s *FileStorage) Save(userID, filename string, data []byte) (string, error) {
	if err := s.EnsureDir(userID); err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	name := filename
	for i := 1; i <= maxNameAttempts; i++ {
		f, err := os.OpenFile(filepath.Join(s.UserDir(userID), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			name = fmt.Sprintf("%s-%d%s", base, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create export file: %w", err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write export file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close export file: %w", err)
		}
		return name, nil
	}
	return "", fmt.Errorf("no free name for %s", filename)
}

// Path возвращает путь к ранее сохранённому файлу пользователя.
func (s *FileStorage) Path(userID, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.UserDir(userID), filename), nil
}

// safeSegment не даёт идентификатору пользователя выйти за пределы root.
func safeSegment(id string) string {
	id = filepath.Base(filepath.Clean("/" + id))
	if id == "/" || id == "." || id == "" {
		return "_"
	}
	return id
}
