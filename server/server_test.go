package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/server/knowledge"
	"github.com/wagewise/wagewise/server/pipeline"
	"github.com/wagewise/wagewise/store"
	"github.com/wagewise/wagewise/store/db/sqlite"
)

func newTestServer(t *testing.T, rps float64, burst int) *Server {
	t.Helper()

	p := &profile.Profile{
		Mode:             "demo",
		Driver:           "sqlite",
		DSN:              filepath.Join(t.TempDir(), "server_test.db"),
		Version:          "test",
		HybridConfidence: 0.55,
		RateLimitRPS:     rps,
		RateLimitBurst:   burst,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))

	pipe, err := pipeline.New(p, s, nil, knowledge.NewMockRetriever(), nil)
	require.NoError(t, err)

	srv, err := NewServer(context.Background(), p, s, pipe)
	require.NoError(t, err)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
	})
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, 100, 100)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := map[string]string{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "test", body["version"])
}

func TestRateLimitRejectsBursts(t *testing.T) {
	srv := newTestServer(t, 1, 1)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		srv.Echo().ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	require.Equal(t, http.StatusOK, statuses[0])
	require.Contains(t, statuses, http.StatusTooManyRequests)
}

func TestRoutesRegistered(t *testing.T) {
	srv := newTestServer(t, 100, 100)

	paths := make(map[string]bool)
	for _, route := range srv.Echo().Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	require.True(t, paths["POST /api/v1/ask"])
	require.True(t, paths["GET /api/v1/topics"])
	require.True(t, paths["GET /api/v1/stats"])
	require.True(t, paths["GET /healthz"])
}
