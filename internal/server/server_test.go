package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibler-backend/internal/media"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/config"
	"bibler-backend/internal/platform/db"
	"bibler-backend/internal/platform/db/dbtest"
	"bibler-backend/internal/seed"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>bibler</html>"), 0o644))

	cfg := &config.Config{
		Mode:   "dev",
		DB:     db.DatabaseConfig{Driver: db.DriverSQLite, Path: "test.db"},
		Server: config.ServerConfig{StaticDir: static},
		CORS:   config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
	}
	clk := clock.Fixed(time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC))
	conn := dbtest.Open(t)
	_, err := seed.Run(context.Background(), conn, db.DriverSQLite, clk)
	require.NoError(t, err)

	return New(cfg, Deps{DB: conn, Covers: media.NewFS(t.TempDir()), Clock: clk})
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRoutes(t *testing.T) {
	r := newEngine(t)

	cases := []struct {
		method, path string
		code         int
		body         string
	}{
		{http.MethodGet, "/healthz", http.StatusOK, "ok"},
		{http.MethodGet, "/stats/books/count", http.StatusOK, "7"},
		{http.MethodGet, "/stats/books/borrowed", http.StatusOK, "6"},
		{http.MethodGet, "/book/borrowed/0", http.StatusOK, `"False"`},
		{http.MethodGet, "/book/borrowed/1", http.StatusOK, `"True"`},
		{http.MethodGet, "/media/exists/0", http.StatusOK, `"False"`},
		{http.MethodPatch, "/borrow/0/0", http.StatusOK, `{"status":"successfully borrowed","return_date":"2024-05-27"}`},
		{http.MethodPatch, "/borrow/2/0", http.StatusConflict, `{"status":"already borrowed"}`},
		{http.MethodPatch, "/return/2/0", http.StatusConflict, `{"status":"book not borrowed"}`},
		{http.MethodPatch, "/return/0/0", http.StatusOK, `{"status":"successfully returned"}`},
		{http.MethodDelete, "/book/0", http.StatusConflict, `{"status":"book still borrowed"}`},
	}
	for _, tc := range cases {
		w := do(r, tc.method, tc.path)
		assert.Equal(t, tc.code, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.body, w.Body.String(), "%s %s", tc.method, tc.path)
	}
}

func TestOpsRoutes(t *testing.T) {
	r := newEngine(t)

	w := do(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bibler_books 7")
	assert.Contains(t, w.Body.String(), "bibler_loans_open_overdue 1")

	w = do(r, http.MethodGet, "/openapi.yaml")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/borrow/{user_key}/{book_key}")

	w = do(r, http.MethodGet, "/swagger/index.html")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/static/index.html", w.Header().Get("Location"))

	// FileServer strips index.html
	w = do(r, http.MethodGet, "/static/index.html")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	w = do(r, http.MethodGet, "/static/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bibler")
}

func TestCORSPreflight(t *testing.T) {
	r := newEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
