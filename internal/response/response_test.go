package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(contextutils.WithRequestID(req.Context(), "req-1"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_ServiceError(t *testing.T) {
	b := NewBuilder(nil, nil)
	rec := httptest.NewRecorder()

	b.WriteError(rec, newRequest(), services.CommentNotFoundError("c-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	body := decodeError(t, rec)
	assert.Equal(t, services.MsgCommentNotFound, body.Detail)
	assert.Equal(t, services.ErrorTypeNotFound, body.Error.Type)
	assert.Equal(t, "c-1", body.Error.Details["comment_id"])
	assert.Equal(t, "req-1", body.RequestID)
}

func TestWriteError_MasksInternalErrors(t *testing.T) {
	b := NewBuilder(nil, nil)

	rec := httptest.NewRecorder()
	b.WriteError(rec, newRequest(), services.NewInternalError("pq: connection refused", errors.New("dial tcp")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec).Detail)

	rec = httptest.NewRecorder()
	b.WriteError(rec, newRequest(), errors.New("raw failure"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Internal server error", body.Detail)
	assert.Equal(t, services.ErrorTypeInternal, body.Error.Type)

	unmasked := NewBuilder(&Config{MaskInternalErrors: false}, nil)
	rec = httptest.NewRecorder()
	unmasked.WriteError(rec, newRequest(), errors.New("raw failure"))
	body = decodeError(t, rec)
	assert.Equal(t, "raw failure", body.Detail)
	assert.Empty(t, body.RequestID)
}

func TestWriteSuccess_RawBody(t *testing.T) {
	b := NewBuilder(nil, nil)
	rec := httptest.NewRecorder()

	b.WriteCreated(rec, newRequest(), map[string]string{"id": "c-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"c-1"}`, rec.Body.String())
}

func TestMiddlewareAndQuickError(t *testing.T) {
	builder := NewBuilder(&Config{IncludeRequestID: false, MaskInternalErrors: true}, nil)
	handler := Middleware(builder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Same(t, builder, GetBuilder(r.Context()))
		QuickError(w, r, services.NewForbiddenError(services.MsgDeleteForbidden))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, services.MsgDeleteForbidden, body.Detail)
	assert.Empty(t, body.RequestID)

	assert.Nil(t, GetBuilder(newRequest().Context()))
}
