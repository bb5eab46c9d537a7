package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialfeed/internal/events"
	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/monitoring"
	"socialfeed/internal/repositories"
	"socialfeed/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *services.ServiceCollection) {
	t.Helper()
	logger := zap.NewNop()

	directory := repositories.NewMemoryDirectory()
	directory.AddUser(models.UserProfile{ID: "u-1", Username: "alice"})
	directory.AddPost("p-1", "u-1")

	repos := repositories.NewMemoryCollection(directory, repositories.NewMemoryNotificationSink(), logger, nil)
	bus := events.NewEventBus(&events.EventBusConfig{BufferSize: 16, WorkerCount: 1, HandlerTimeout: time.Second}, logger)
	sc, err := services.NewServiceCollection(repos, bus, nil, nil, logger)
	require.NoError(t, err)
	require.NoError(t, sc.Start(context.Background()))
	t.Cleanup(func() { _ = sc.Shutdown(context.Background()) })

	auth, err := middleware.NewAuthMiddleware(&middleware.AuthConfig{JWTSecret: "secret"}, logger)
	require.NoError(t, err)

	handler := SetupRouter(Options{
		Services:   sc,
		Auth:       auth,
		Dashboard:  monitoring.NewDashboard(sc, logger, "socialfeed-comments", "test", "test", monitoring.WithEventBus(bus)),
		CORSOrigin: "https://feed.example.com",
		Logger:     logger,
	})
	return handler, sc
}

func TestRouter_Health(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "socialfeed-comments", body["service"])
	assert.Contains(t, body["components"], "event_bus")
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderXRequestID))
}

func TestRouter_HealthDegradesWhenBusStops(t *testing.T) {
	handler, sc := newTestRouter(t)
	require.NoError(t, sc.Shutdown(context.Background()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestRouter_MetricsRequireAuth(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := middleware.IssueToken("secret", "u-1", "alice", time.Minute)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/internal/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"notifications"`)
}

func TestRouter_CommentRoutesRequireAuth(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/comments", strings.NewReader(`{"post_id":"p-1","text":"hi"}`))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"detail":"Not authenticated"`)
}

func TestRouter_AuthenticatedCreate(t *testing.T) {
	handler, _ := newTestRouter(t)
	token, err := middleware.IssueToken("secret", "u-1", "alice", time.Minute)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/comments", strings.NewReader(`{"post_id":"p-1","text":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"text":"hello"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/comments/p-1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://feed.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"detail":"Not found"`)
}
