package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClient_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/sessions/good":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"userId":"user-1"}`))
		case "/internal/sessions/plain":
			w.Write([]byte(`{"userId":"user-2"}`))
		case "/internal/sessions/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL)
	ctx := context.Background()

	userID, ok, err := client.Resolve(ctx, "good")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	_, ok, err = client.Resolve(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	userID, ok, err = client.Resolve(ctx, "plain")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-2", userID)

	_, _, err = client.Resolve(ctx, "broken")
	assert.Error(t, err)
}

func TestAuthClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, ok, err := NewAuthClient(url).Resolve(context.Background(), "good")
	assert.Error(t, err)
	assert.False(t, ok)
}
