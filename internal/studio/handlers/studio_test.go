package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"design-studio/internal/studio/export"
	"design-studio/internal/studio/models"
	"design-studio/internal/studio/service"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExportLog struct {
	mu      sync.Mutex
	records []models.ExportRecord
}

func (f *fakeExportLog) Record(_ context.Context, rec *models.ExportRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = "exp-1"
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeExportLog) ListByUser(_ context.Context, userID string, _ int) ([]models.ExportRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ExportRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeIdentity map[string]string

func (f fakeIdentity) Resolve(_ context.Context, token string) (string, bool, error) {
	id, ok := f[token]
	return id, ok, nil
}

func setupApp(t *testing.T) (*fiber.App, *fakeExportLog) {
	t.Helper()

	log := &fakeExportLog{}
	h := NewStudioHandler(Config{
		Registry: service.NewRegistry(service.RegistryConfig{Width: 320, Height: 240, Logger: zap.NewNop()}),
		Exports:  log,
		Storage:  export.NewFileStorage(t.TempDir()),
		Identity: fakeIdentity{"good": "user-1", "other": "user-2"},
		Logger:   zap.NewNop(),
	})

	app := fiber.New()
	h.Register(app)
	return app, log
}

func do(t *testing.T, app *fiber.App, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
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

func createSession(t *testing.T, app *fiber.App, token string) service.Snapshot {
	t.Helper()
	resp, body := do(t, app, http.MethodPost, "/sessions", fiber.Map{"templateId": "single-room"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var snap service.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	return snap
}

func TestCatalogRoutes(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := do(t, app, http.MethodGet, "/templates", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var templates []models.Template
	require.NoError(t, json.Unmarshal(body, &templates))
	assert.Len(t, templates, 3)

	resp, body = do(t, app, http.MethodGet, "/catalog", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"id":"sofa"`)
}

func TestCreateSession_Validation(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := do(t, app, http.MethodPost, "/sessions", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/sessions", fiber.Map{"templateId": "castle"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	snap := createSession(t, app, "")
	assert.NotEmpty(t, snap.ID)
	assert.Len(t, snap.Scene.Walls, 4)
	assert.Equal(t, "idle", snap.State)
}

func TestEventsAndActions(t *testing.T) {
	app, _ := setupApp(t)
	snap := createSession(t, app, "")
	base := "/sessions/" + snap.ID

	// панорамирование по пустому месту
	do(t, app, http.MethodPost, base+"/events", fiber.Map{"type": "down", "x": 1, "y": 1}, "")
	resp, body := do(t, app, http.MethodPost, base+"/events", fiber.Map{"type": "move", "x": 11, "y": 6}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var moved service.Snapshot
	require.NoError(t, json.Unmarshal(body, &moved))
	assert.Equal(t, "panning", moved.State)
	assert.InDelta(t, snap.View.Offset.X+10, moved.View.Offset.X, 1e-9)
	do(t, app, http.MethodPost, base+"/events", fiber.Map{"type": "up"}, "")

	resp, _ = do(t, app, http.MethodPost, base+"/events", fiber.Map{"type": "teleport"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, http.MethodPost, base+"/actions/furniture", fiber.Map{"itemId": "sofa"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var added service.Snapshot
	require.NoError(t, json.Unmarshal(body, &added))
	require.Len(t, added.Scene.Furniture, 1)
	assert.True(t, added.CanUndo)

	resp, body = do(t, app, http.MethodPost, base+"/actions/rotate", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rotated service.Snapshot
	require.NoError(t, json.Unmarshal(body, &rotated))
	assert.Equal(t, 900.0, rotated.Scene.Furniture[0].W)
	assert.Equal(t, 90.0, rotated.Scene.Furniture[0].Rot)

	resp, _ = do(t, app, http.MethodPost, base+"/actions/furniture", fiber.Map{"itemId": "spaceship"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, base+"/actions/delete", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, http.MethodPost, base+"/actions/delete", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "nothing selected")

	resp, body = do(t, app, http.MethodPost, base+"/actions/undo", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var undone service.Snapshot
	require.NoError(t, json.Unmarshal(body, &undone))
	assert.Len(t, undone.Scene.Furniture, 1)

	resp, _ = do(t, app, http.MethodPost, base+"/actions/dance", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, base+"/actions/note-text", fiber.Map{"id": "missing", "text": "x"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderAndExport(t *testing.T) {
	app, log := setupApp(t)
	snap := createSession(t, app, "good")
	base := "/sessions/" + snap.ID

	resp, body := do(t, app, http.MethodGet, base+"/render.png", nil, "good")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())

	resp, body = do(t, app, http.MethodPost, base+"/export?format=png", nil, "good")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Regexp(t, `^design-\d{8}-\d{6}\.\d{3}(-\d+)?\.png$`, out.Filename)

	resp, body = do(t, app, http.MethodPost, base+"/export?format=svg", nil, "good")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = do(t, app, http.MethodPost, base+"/export?format=gif", nil, "good")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.Len(t, log.records, 2)
	assert.Equal(t, "user-1", log.records[0].UserID)
	assert.Equal(t, 320, log.records[0].Width)
	assert.Equal(t, "svg", log.records[1].Format)

	resp, body = do(t, app, http.MethodGet, "/exports", nil, "good")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []models.ExportRecord
	require.NoError(t, json.Unmarshal(body, &records))
	assert.Len(t, records, 2)

	resp, _ = do(t, app, http.MethodGet, out.URL, nil, "good")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/exports/nothing.png", nil, "good")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionOwnershipAndAuth(t *testing.T) {
	app, _ := setupApp(t)
	snap := createSession(t, app, "good")
	path := "/sessions/" + snap.ID + "/scene"

	resp, _ := do(t, app, http.MethodGet, path, nil, "bogus")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, path, nil, "other")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, path, nil, "good")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/sessions/"+snap.ID, nil, "good")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, path, nil, "good")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImportTemplate(t *testing.T) {
	app, _ := setupApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "flat.svg")
	require.NoError(t, err)
	part.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg">
  <rect id="Wall_a" x="0" y="0" width="300" height="20"/>
  <rect id="Wall_b" x="0" y="0" width="20" height="300"/>
  <rect id="Door_1" x="100" y="0" width="80" height="20"/>
</svg>`))
	w.WriteField("name", "Flat")
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/templates/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var tpl models.Template
	require.NoError(t, json.Unmarshal(body, &tpl))
	assert.Equal(t, "Flat", tpl.Name)
	assert.Len(t, tpl.Walls, 2)
	require.Len(t, tpl.Doors, 1)
	assert.Equal(t, 0, tpl.Doors[0].Wall)

	resp, body = do(t, app, http.MethodPost, "/sessions", fiber.Map{"templateId": tpl.ID}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = do(t, app, http.MethodPost, "/templates/import", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportTemplate_RejectsBadGeometry(t *testing.T) {
	app, _ := setupApp(t)

	for name, doc := range map[string]string{
		"nan door":       `<svg><rect id="Wall_1" width="400" height="20"/><rect id="Door_1" x="NaN" y="0" width="90" height="20"/></svg>`,
		"zero thickness": `<svg><rect id="Wall_1" width="400" height="0"/></svg>`,
	} {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", "bad.svg")
		require.NoError(t, err)
		part.Write([]byte(doc))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/templates/import", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
	}
}
