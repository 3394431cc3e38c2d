package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userColumns = []string{"id", "login", "password_hash", "name", "email", "created_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, New(db, zap.NewNop())
}

func TestHashPassword(t *testing.T) {
	assert.Equal(t, "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918", HashPassword("admin"))
	assert.NotEqual(t, HashPassword("admin"), HashPassword("Admin"))
}

func TestGetByCredentials(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, login, password_hash, name, email, created_at FROM users WHERE login = \? AND password_hash = \?`).
		WithArgs("admin", HashPassword("secret")).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(adminID, "admin", HashPassword("secret"), "Admin User", "admin@example.com", "2026-10-17T10:00:00Z"))

	u, err := repo.GetByCredentials(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, adminID, u.ID)
	assert.Equal(t, "Admin User", u.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCredentials_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCredentials(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_DBError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).WithArgs("u1").WillReturnError(errors.New("locked"))

	_, err := repo.GetByID(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdmin_SeedsOnce(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).WithArgs(adminID).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(adminID, "admin", HashPassword("admin"), "Admin User", "admin@example.com").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.ensureAdmin(context.Background(), "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdmin_AlreadyPresent(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).WithArgs(adminID).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(adminID, "admin", "x", "Admin User", "admin@example.com", "2026-10-17T10:00:00Z"))

	require.NoError(t, repo.ensureAdmin(context.Background(), "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
