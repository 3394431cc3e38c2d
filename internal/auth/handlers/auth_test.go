package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"design-studio/internal/auth/models"
	"design-studio/internal/auth/repository"
	"design-studio/internal/auth/service"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers struct {
	users map[string]*models.User
	pass  map[string]string // login -> password
	err   error
}

func (f *fakeUsers) GetByCredentials(_ context.Context, login, password string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Login == login && f.pass[login] == password {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func setupApp(users *fakeUsers) (*fiber.App, *service.SessionManager) {
	sessions := service.NewSessionManager(0)
	app := fiber.New()
	NewAuthHandler(users, sessions, zap.NewNop()).Register(app)
	return app, sessions
}

func newUsers() *fakeUsers {
	return &fakeUsers{
		users: map[string]*models.User{
			"u1": {ID: "u1", Login: "admin", Name: "Admin User", PasswordHash: "hash"},
			"u2": {ID: "u2", Login: "guest"},
		},
		pass: map[string]string{"admin": "secret"},
	}
}

func request(t *testing.T, app *fiber.App, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestLogin(t *testing.T) {
	app, sessions := setupApp(newUsers())

	resp, _ := request(t, app, http.MethodPost, "/login", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, app, http.MethodPost, "/login", fiber.Map{"login": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, app, http.MethodPost, "/login", fiber.Map{"login": "admin", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := request(t, app, http.MethodPost, "/login", fiber.Map{"login": "admin", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "hash")

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "u1", out.User.ID)

	userID, ok := sessions.Resolve(out.Token)
	assert.True(t, ok)
	assert.Equal(t, "u1", userID)
}

func TestLogin_StoreError(t *testing.T) {
	users := newUsers()
	users.err = errors.New("db down")
	app, _ := setupApp(users)

	resp, _ := request(t, app, http.MethodPost, "/login", fiber.Map{"login": "admin", "password": "secret"}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestMeAndGetUser(t *testing.T) {
	app, sessions := setupApp(newUsers())
	token := sessions.Issue("u1")

	resp, _ := request(t, app, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := request(t, app, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"login":"admin"`)

	resp, _ = request(t, app, http.MethodGet, "/users/u1", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = request(t, app, http.MethodGet, "/users/u2", nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ghost := sessions.Issue("u404")
	resp, _ = request(t, app, http.MethodGet, "/me", nil, ghost)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResolveSessionAndLogout(t *testing.T) {
	app, sessions := setupApp(newUsers())
	token := sessions.Issue("u1")

	resp, body := request(t, app, http.MethodGet, "/internal/sessions/"+token, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u1"}`, string(body))

	resp, _ = request(t, app, http.MethodPost, "/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = request(t, app, http.MethodGet, "/internal/sessions/"+token, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
