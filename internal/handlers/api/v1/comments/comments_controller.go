// ===============================
// FILE: internal/handlers/api/v1/comments/comments_controller.go
// ===============================

package comments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/models"
	"socialfeed/internal/response"
	"socialfeed/internal/services"
	"socialfeed/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; comment text is at most 500 characters
const maxBodyBytes = 64 << 10

// CommentController handles the comment API endpoints
type CommentController struct {
	commentService  services.CommentService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCommentController creates a new comment controller
func NewCommentController(
	commentService services.CommentService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *CommentController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if responseBuilder == nil {
		responseBuilder = response.NewBuilder(response.DefaultConfig(), logger)
	}
	return &CommentController{
		commentService:  commentService,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Routes registers the comment endpoints. Every route expects an
// authenticated request.
func (c *CommentController) Routes(r chi.Router) {
	r.Post("/", c.CreateComment)
	r.Get("/{id}", c.ListComments)
	r.Put("/{id}", c.UpdateComment)
	r.Delete("/{id}", c.DeleteComment)
	r.Get("/{id}/replies", c.ListReplies)
	r.Post("/{id}/react", c.React)
	r.Delete("/{id}/react/{type}", c.Unreact)
	r.Post("/{id}/like", c.Like)
	r.Delete("/{id}/like", c.Unlike)
}

// ===============================
// CORE CRUD OPERATIONS
// ===============================

// CreateComment handles POST /api/comments
func (c *CommentController) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if err := c.decode(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(services.MsgPostAndTextRequired, err))
		return
	}

	comment, err := c.commentService.CreateComment(r.Context(), &services.CreateCommentRequest{
		PostID:          req.PostID,
		Text:            req.Text,
		ParentCommentID: req.ParentCommentID,
		Author:          authorFromRequest(r),
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, comment)
}

// ListComments handles GET /api/comments/{postId}
func (c *CommentController) ListComments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result, err := c.commentService.ListTopLevel(r.Context(), &services.ListCommentsRequest{
		PostID:   chi.URLParam(r, "id"),
		Sort:     query.Get("sort"),
		Limit:    queryInt(query.Get("limit")),
		Offset:   queryInt(query.Get("offset")),
		ViewerID: contextutils.GetUserID(r.Context()),
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// ListReplies handles GET /api/comments/{commentId}/replies
func (c *CommentController) ListReplies(w http.ResponseWriter, r *http.Request) {
	result, err := c.commentService.ListReplies(r.Context(), &services.ListRepliesRequest{
		ParentCommentID: chi.URLParam(r, "id"),
		Sort:            r.URL.Query().Get("sort"),
		ViewerID:        contextutils.GetUserID(r.Context()),
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// UpdateComment handles PUT /api/comments/{commentId}
func (c *CommentController) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCommentRequest
	if err := c.decode(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(services.MsgTextRequired, err))
		return
	}

	comment, err := c.commentService.EditComment(r.Context(), &services.EditCommentRequest{
		CommentID: chi.URLParam(r, "id"),
		UserID:    contextutils.GetUserID(r.Context()),
		Text:      req.Text,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, comment)
}

// DeleteComment handles DELETE /api/comments/{commentId}
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	result, err := c.commentService.DeleteComment(r.Context(), chi.URLParam(r, "id"), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// ===============================
// REACTIONS
// ===============================

// React handles POST /api/comments/{commentId}/react
func (c *CommentController) React(w http.ResponseWriter, r *http.Request) {
	var req models.ReactRequest
	if err := c.decode(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.InvalidReactionError(req.ReactionType))
		return
	}

	result, err := c.commentService.React(r.Context(), &services.ReactionRequest{
		CommentID:    chi.URLParam(r, "id"),
		ReactionType: req.ReactionType,
		Actor:        authorFromRequest(r),
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// Unreact handles DELETE /api/comments/{commentId}/react/{type}
func (c *CommentController) Unreact(w http.ResponseWriter, r *http.Request) {
	result, err := c.commentService.Unreact(r.Context(), &services.ReactionRequest{
		CommentID:    chi.URLParam(r, "id"),
		ReactionType: chi.URLParam(r, "type"),
		Actor:        authorFromRequest(r),
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// Like handles POST /api/comments/{commentId}/like
func (c *CommentController) Like(w http.ResponseWriter, r *http.Request) {
	result, err := c.commentService.Like(r.Context(), chi.URLParam(r, "id"), authorFromRequest(r))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// Unlike handles DELETE /api/comments/{commentId}/like
func (c *CommentController) Unlike(w http.ResponseWriter, r *http.Request) {
	result, err := c.commentService.Unlike(r.Context(), chi.URLParam(r, "id"), authorFromRequest(r))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, result)
}

// ===============================
// HELPERS
// ===============================

// decode reads a JSON body into dst
func (c *CommentController) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		contextutils.GetLogger(r.Context(), c.logger).Debug("Failed to decode request body", zap.Error(err))
		return services.NewValidationError("Invalid request body", err)
	}
	return nil
}

// authorFromRequest builds the caller identity from the token claims
func authorFromRequest(r *http.Request) models.Author {
	ctx := r.Context()
	return models.Author{
		ID:       contextutils.GetUserID(ctx),
		Username: contextutils.GetUsername(ctx),
		Avatar:   contextutils.GetAvatar(ctx),
	}
}

// queryInt parses a paging parameter; anything unparsable means "use the default"
func queryInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
