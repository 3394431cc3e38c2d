package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMount_ForwardsPathQueryAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Upstream", "studio")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	app := fiber.New()
	app.All("/api/v1/studio/*", New(time.Second, zap.NewNop()).Mount(upstream.URL))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/studio/sessions/abc/export?format=png", strings.NewReader(`{"x":1}`))
	req.Header.Set("Authorization", "Bearer t1")
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "studio", resp.Header.Get("X-Upstream"))

	assert.Equal(t, "/sessions/abc/export", gotPath)
	assert.Equal(t, "format=png", gotQuery)
	assert.Equal(t, "Bearer t1", gotAuth)
	assert.Equal(t, `{"x":1}`, gotBody)
}

func TestTo_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	app := fiber.New()
	app.Post("/login", New(time.Second, zap.NewNop()).To(url+"/login"))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
