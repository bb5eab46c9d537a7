package comments

import (
	"bytes"
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
	"socialfeed/internal/repositories"
	"socialfeed/internal/response"
	"socialfeed/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type apiEnv struct {
	handler   http.Handler
	services  *services.ServiceCollection
	directory *repositories.MemoryDirectory
	sink      *repositories.MemoryNotificationSink
}

// newAPIEnv wires the controller on in-memory stores. Post p-1 belongs to bob.
func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	logger := zap.NewNop()

	directory := repositories.NewMemoryDirectory()
	directory.AddUser(models.UserProfile{ID: "u-alice", Username: "alice"})
	directory.AddUser(models.UserProfile{ID: "u-bob", Username: "bob"})
	directory.AddPost("p-1", "u-bob")

	sink := repositories.NewMemoryNotificationSink()
	repos := repositories.NewMemoryCollection(directory, sink, logger, nil)
	bus := events.NewEventBus(&events.EventBusConfig{BufferSize: 64, WorkerCount: 1, HandlerTimeout: time.Second}, logger)
	sc, err := services.NewServiceCollection(repos, bus, nil, nil, logger)
	require.NoError(t, err)
	require.NoError(t, sc.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sc.Shutdown(ctx)
	})

	auth, err := middleware.NewAuthMiddleware(&middleware.AuthConfig{JWTSecret: testSecret}, logger)
	require.NoError(t, err)

	builder := response.NewBuilder(response.DefaultConfig(), logger)
	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(response.Middleware(builder))
	r.Route("/api/comments", func(r chi.Router) {
		r.Use(auth.RequireAuth())
		NewCommentController(sc.CommentService, logger, builder).Routes(r)
	})

	return &apiEnv{handler: r, services: sc, directory: directory, sink: sink}
}

func token(t *testing.T, userID, username string) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, userID, username, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *apiEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCommentAPI_RequiresAuthentication(t *testing.T) {
	env := newAPIEnv(t)

	for _, bearer := range []string{"", "garbage"} {
		rec := env.do(t, http.MethodGet, "/api/comments/p-1", bearer, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeBody[response.ErrorResponse](t, rec)
		assert.Equal(t, middleware.MsgNotAuthenticated, body.Detail)
		assert.NotEmpty(t, body.RequestID)
	}

	wrongKey, err := middleware.IssueToken("other-secret", "u-alice", "alice", time.Hour)
	require.NoError(t, err)
	rec := env.do(t, http.MethodGet, "/api/comments/p-1", wrongKey, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommentAPI_CreateAndList(t *testing.T) {
	env := newAPIEnv(t)
	alice := token(t, "u-alice", "alice")

	rec := env.do(t, http.MethodPost, "/api/comments/", alice, map[string]string{"post_id": "p-1", "text": "Nice one"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Comment](t, rec)
	assert.Equal(t, "Nice one", created.Text)
	assert.Equal(t, "u-alice", created.AuthorID)
	assert.Equal(t, "alice", created.AuthorUsername)

	rec = env.do(t, http.MethodPost, "/api/comments/", alice, map[string]interface{}{
		"post_id": "p-1", "text": "a reply", "parent_comment_id": created.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/comments/p-1?sort=most_liked&limit=abc", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[models.CommentListResponse](t, rec)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 20, list.Limit)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, 1, list.Comments[0].ReplyCount)

	rec = env.do(t, http.MethodGet, "/api/comments/"+created.ID+"/replies", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	replies := decodeBody[models.ReplyListResponse](t, rec)
	require.Len(t, replies.Replies, 1)
	assert.Equal(t, "a reply", replies.Replies[0].Text)
}

func TestCommentAPI_CreateValidation(t *testing.T) {
	env := newAPIEnv(t)
	alice := token(t, "u-alice", "alice")

	tests := []struct {
		name    string
		body    interface{}
		status  int
		message string
	}{
		{"missing text", map[string]string{"post_id": "p-1"}, http.StatusBadRequest, services.MsgPostAndTextRequired},
		{"empty body", nil, http.StatusBadRequest, services.MsgPostAndTextRequired},
		{"malformed json", "{", http.StatusBadRequest, "Invalid request body"},
		{"blank text", map[string]string{"post_id": "p-1", "text": "   "}, http.StatusBadRequest, services.MsgTextRequired},
		{"too long", map[string]string{"post_id": "p-1", "text": strings.Repeat("x", 501)}, http.StatusBadRequest, services.MsgTextTooLong},
		{"unknown post", map[string]string{"post_id": "p-404", "text": "hi"}, http.StatusNotFound, services.MsgPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/comments/", alice, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody[response.ErrorResponse](t, rec)
			assert.Equal(t, tt.message, body.Detail)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestCommentAPI_EditAndDelete(t *testing.T) {
	env := newAPIEnv(t)
	alice := token(t, "u-alice", "alice")
	bob := token(t, "u-bob", "bob")

	rec := env.do(t, http.MethodPost, "/api/comments/", alice, map[string]string{"post_id": "p-1", "text": "first"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[models.Comment](t, rec).ID

	rec = env.do(t, http.MethodPut, "/api/comments/"+id, bob, map[string]string{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, services.MsgEditForbidden, decodeBody[response.ErrorResponse](t, rec).Detail)

	rec = env.do(t, http.MethodPut, "/api/comments/"+id, alice, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.MsgTextRequired, decodeBody[response.ErrorResponse](t, rec).Detail)

	rec = env.do(t, http.MethodPut, "/api/comments/"+id, alice, map[string]string{"text": "second"})
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decodeBody[models.Comment](t, rec)
	assert.Equal(t, "second", edited.Text)
	assert.True(t, edited.IsEdited)

	rec = env.do(t, http.MethodDelete, "/api/comments/"+id, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/comments/"+id, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[models.DeleteCommentResponse](t, rec)
	assert.Equal(t, services.MsgCommentDeleted, result.Detail)
	assert.Equal(t, models.DeleteOutcomeRemoved, result.Outcome)

	rec = env.do(t, http.MethodDelete, "/api/comments/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, services.MsgCommentNotFound, decodeBody[response.ErrorResponse](t, rec).Detail)
}

func TestCommentAPI_Reactions(t *testing.T) {
	env := newAPIEnv(t)
	alice := token(t, "u-alice", "alice")
	bob := token(t, "u-bob", "bob")

	rec := env.do(t, http.MethodPost, "/api/comments/", alice, map[string]string{"post_id": "p-1", "text": "react to me"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[models.Comment](t, rec).ID

	rec = env.do(t, http.MethodPost, "/api/comments/"+id+"/react", bob, map[string]string{"reaction_type": "LOVE"})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[models.ReactionResponse](t, rec)
	require.NotNil(t, result.UserReaction)
	assert.Equal(t, models.ReactionLove, *result.UserReaction)
	assert.Equal(t, 1, result.ReactionSummary[models.ReactionLove])
	assert.True(t, result.HasLiked)

	rec = env.do(t, http.MethodPost, "/api/comments/"+id+"/react", bob, map[string]string{"reaction_type": "meh"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/comments/"+id+"/react", bob, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/comments/"+id+"/react/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decodeBody[models.ReactionResponse](t, rec).UserReaction)

	rec = env.do(t, http.MethodDelete, "/api/comments/"+id+"/react/love", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeBody[models.ReactionResponse](t, rec)
	assert.Nil(t, result.UserReaction)
	assert.Equal(t, 0, result.LikeCount)

	rec = env.do(t, http.MethodPost, "/api/comments/"+id+"/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[models.ReactionResponse](t, rec).LikeCount)

	rec = env.do(t, http.MethodDelete, "/api/comments/"+id+"/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[models.ReactionResponse](t, rec).LikeCount)

	rec = env.do(t, http.MethodPost, "/api/comments/missing/like", bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
