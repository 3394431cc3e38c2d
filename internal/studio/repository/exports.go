package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"design-studio/internal/common/database"
	"design-studio/internal/studio/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Export Log Repository
// ============================================================

const defaultListLimit = 50

type ExportRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewExportRepository(db *sql.DB, log *zap.Logger) *ExportRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportRepository{db: db, log: log}
}

// Init применяет миграцию журнала экспорта.
func (r *ExportRepository) Init(migrationPath string) error {
	if err := database.RunMigration(r.db, migrationPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Record сохраняет запись; пустые ID и CreatedAt заполняются.
func (r *ExportRepository) Record(ctx context.Context, rec *models.ExportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO exports (id, session_id, user_id, filename, format, width, height, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `,
		rec.ID, rec.SessionID, rec.UserID, rec.Filename, rec.Format, rec.Width, rec.Height,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}

	r.log.Info("export recorded",
		zap.String("id", rec.ID),
		zap.String("user_id", rec.UserID),
		zap.String("filename", rec.Filename),
	)
	return nil
}

// ListByUser возвращает последние экспорты пользователя, новые первыми.
func (r *ExportRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ExportRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, session_id, user_id, filename, format, width, height, created_at
        FROM exports
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	records := []models.ExportRecord{}
	for rows.Next() {
		var rec models.ExportRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.UserID, &rec.Filename, &rec.Format, &rec.Width, &rec.Height, &createdAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			r.log.Warn("bad export timestamp", zap.String("id", rec.ID), zap.String("created_at", createdAt))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return records, nil
}
