package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func withBuilder(h http.Handler) http.Handler {
	return RequestID(zap.NewNop())(response.Middleware(response.NewBuilder(nil, nil))(h))
}

func TestRequireAuth(t *testing.T) {
	auth, err := NewAuthMiddleware(&AuthConfig{JWTSecret: "s3cret"}, zap.NewNop())
	require.NoError(t, err)

	var seen struct{ id, username string }
	handler := withBuilder(auth.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.id = contextutils.GetUserID(r.Context())
		seen.username = contextutils.GetUsername(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	valid, err := IssueToken("s3cret", "u-1", "alice", time.Minute)
	require.NoError(t, err)
	expired, err := IssueToken("s3cret", "u-1", "alice", -time.Minute)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Username: "ghost"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"lowercase scheme", "bearer " + valid, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"wrong algorithm", "Bearer " + wrongAlg, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				var body response.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, MsgNotAuthenticated, body.Detail)
			}
		})
	}

	assert.Equal(t, "u-1", seen.id)
	assert.Equal(t, "alice", seen.username)
}

func TestNewAuthMiddleware_RequiresSecret(t *testing.T) {
	_, err := NewAuthMiddleware(&AuthConfig{}, nil)
	assert.Error(t, err)
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	t.Run("with builder", func(t *testing.T) {
		rec := httptest.NewRecorder()
		withBuilder(Recovery(nil, zap.NewNop())(panicking)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Internal server error", body.Detail)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Recovery(&RecoveryConfig{}, zap.NewNop())(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t,
			`{"detail":"Internal server error","error":{"type":"INTERNAL_ERROR","message":"Internal server error"},"request_id":""}`,
			rec.Body.String())
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		abort := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic(http.ErrAbortHandler) })
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			Recovery(nil, zap.NewNop())(abort).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRequestID_ReusesUpstreamID(t *testing.T) {
	var got string
	handler := RequestID(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = contextutils.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXCorrelationID, "corr-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-1", got)
	assert.Equal(t, "corr-1", rec.Header().Get(HeaderXRequestID))
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	CORS("")(next).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	SecureHeaders(CORS("https://a.example")(next)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestSwaggerHandler_BasicAuth(t *testing.T) {
	handler := SwaggerHandler(&SwaggerConfig{URL: "/swagger/doc.json", Username: "docs", Password: "pw"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
}
