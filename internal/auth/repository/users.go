package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"design-studio/internal/auth/models"
	"design-studio/internal/common/database"

	"go.uber.org/zap"
)

// ============================================================
// Users Repository
// ============================================================

const (
	adminID    = "11111111-1111-1111-1111-111111111111"
	adminLogin = "admin"
)

var ErrNotFound = errors.New("user not found")

type Repository struct {
	db  *sql.DB
	log *zap.Logger
}

func New(db *sql.DB, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{db: db, log: log}
}

// Init запускает миграции и убеждается в наличии admin.
func (r *Repository) Init(ctx context.Context, migrationPath, adminPassword string) error {
	if err := database.RunMigration(r.db, migrationPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return r.ensureAdmin(ctx, adminPassword)
}

// HashPassword — sha256 в hex.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (r *Repository) GetByCredentials(ctx context.Context, login, password string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, login, password_hash, name, email, created_at
        FROM users
        WHERE login = ? AND password_hash = ?
    `, login, HashPassword(password))
	return scanUser(row)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, login, password_hash, name, email, created_at
        FROM users
        WHERE id = ?
    `, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Name, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ============================================================
// Seeding
// ============================================================

func (r *Repository) ensureAdmin(ctx context.Context, password string) error {
	_, err := r.GetByID(ctx, adminID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO users (id, login, password_hash, name, email)
        VALUES (?, ?, ?, ?, ?)
    `,
		adminID,
		adminLogin,
		HashPassword(password),
		"Admin User",
		"admin@example.com",
	)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	r.log.Info("admin user seeded", zap.String("login", adminLogin))
	return nil
}
