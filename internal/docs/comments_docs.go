package docs

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Reports the comment store, handle cache and notification queue status
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy or degraded"
// @Failure 503 {object} map[string]interface{} "Comment store unreachable"
// @Router /health [get]
func _() {}

// CreateComment godoc
// @Summary Create a comment or reply
// @Description Creates a top-level comment on a post, or a reply when parent_comment_id is set. Replies to replies are rejected.
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCommentBody true "Comment to create"
// @Success 201 {object} Comment
// @Failure 400 {object} ErrorResponse "Missing or invalid text"
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Failure 404 {object} ErrorResponse "Post or parent comment not found"
// @Router /api/comments [post]
func _() {}

// ListComments godoc
// @Summary List top-level comments of a post
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param sort query string false "Sort order" Enums(newest, most_liked, most_replied)
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Items to skip" default(0)
// @Success 200 {object} CommentList
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Router /api/comments/{id} [get]
func _() {}

// ListReplies godoc
// @Summary List the replies of a comment
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Parent comment ID"
// @Param sort query string false "Sort order" Enums(newest, most_liked, most_replied)
// @Success 200 {object} ReplyList
// @Failure 401 {object} ErrorResponse "Not authenticated"
// @Router /api/comments/{id}/replies [get]
func _() {}

// UpdateComment godoc
// @Summary Edit a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Param body body UpdateCommentBody true "New text"
// @Success 200 {object} Comment
// @Failure 400 {object} ErrorResponse "Missing or invalid text"
// @Failure 403 {object} ErrorResponse "Not the author"
// @Failure 404 {object} ErrorResponse "Comment not found"
// @Router /api/comments/{id} [put]
func _() {}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Removes the comment, or leaves a "[deleted]" placeholder when a top-level comment still has replies
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} DeleteResult
// @Failure 403 {object} ErrorResponse "Not the author"
// @Failure 404 {object} ErrorResponse "Comment not found"
// @Router /api/comments/{id} [delete]
func _() {}

// React godoc
// @Summary Toggle a reaction
// @Description Adds the reaction, replaces a different one, or removes it when the same type is sent again
// @Tags Reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Param body body ReactBody true "Reaction"
// @Success 200 {object} ReactionResult
// @Failure 400 {object} ErrorResponse "Invalid reaction type"
// @Failure 404 {object} ErrorResponse "Comment not found"
// @Router /api/comments/{id}/react [post]
func _() {}

// Unreact godoc
// @Summary Remove a reaction
// @Description Removes the caller's reaction only when it matches the given type
// @Tags Reactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Param type path string true "Reaction type" Enums(like, love, laugh, wow, sad, angry)
// @Success 200 {object} ReactionResult
// @Failure 400 {object} ErrorResponse "Invalid reaction type"
// @Failure 404 {object} ErrorResponse "Comment not found"
// @Router /api/comments/{id}/react/{type} [delete]
func _() {}

// Like godoc
// @Summary Toggle a like
// @Tags Reactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} ReactionResult
// @Failure 404 {object} ErrorResponse "Comment not found"
// @Router /api/comments/{id}/like [post]
func _() {}

// Unlike godoc
// @Summary Remove a like
// @Tags Reactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} ReactionResult
// @Failure 404 {object} ErrorResponse "Comment not found"
// @Router /api/comments/{id}/like [delete]
func _() {}
