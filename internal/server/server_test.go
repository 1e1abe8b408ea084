package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/logger"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>tracker</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644))

	cfg := config.Config{StaticDir: dir, StoreDriver: config.StoreMemory}
	srv := NewWithStore(cfg, store.NewMemoryUserRepository(), nil, logger.Nop())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestDefaultAddr(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, ":8080", srv.Addr())
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tracker")

	w = serve(srv, http.MethodGet, "/style.css", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())

	w = serve(srv, http.MethodGet, "/nope.js", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","users":0}`, w.Body.String())
}

func TestAPIUpdatesMetrics(t *testing.T) {
	srv := newTestServer(t)

	w := serve(srv, http.MethodPost, "/api/exercise/new-user", `{"username":"a"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(srv, http.MethodPost, "/api/exercise/add", `{"userId":"0","description":"run","duration":30}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "exercise_tracker_users_created_total 1")
	assert.Contains(t, body, "exercise_tracker_exercises_added_total 1")
	assert.Contains(t, body, `route="/api/exercise/new-user"`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/exercise/add", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestUnknownUserThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/log?userId=42", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, w.Body.String())
}

func TestOpenStore(t *testing.T) {
	users, err := OpenStore(context.Background(), config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryUserRepository{}, users)
	require.NoError(t, users.Close(context.Background()))

	_, err = OpenStore(context.Background(), config.Config{StoreDriver: "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown STORE_DRIVER "sqlite"`)

	_, err = OpenStore(context.Background(), config.Config{StoreDriver: config.StoreMongo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URL is required")
}
