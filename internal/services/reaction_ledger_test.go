package services

import (
	"testing"

	"socialfeed/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestReactionLedger(t *testing.T) {
	like := models.ReactionLike
	love := models.ReactionLove

	next, change := ToggleReaction(like)(nil)
	assert.Equal(t, models.ReactionAdded, change)
	assert.Equal(t, like, *next)

	next, change = ToggleReaction(like)(&like)
	assert.Equal(t, models.ReactionRemoved, change)
	assert.Nil(t, next)

	next, change = ToggleReaction(love)(&like)
	assert.Equal(t, models.ReactionReplaced, change)
	assert.Equal(t, love, *next)

	next, change = RemoveReaction(like)(&love)
	assert.Equal(t, models.ReactionUnchanged, change)
	assert.Equal(t, love, *next)

	next, change = RemoveReaction(like)(nil)
	assert.Equal(t, models.ReactionUnchanged, change)
	assert.Nil(t, next)

	next, change = RemoveReaction(love)(&love)
	assert.Equal(t, models.ReactionRemoved, change)
	assert.Nil(t, next)
}

func TestDecideDelete(t *testing.T) {
	parent := "c-0"
	top := &models.Comment{ID: "c-1", AuthorID: "u-1"}
	reply := &models.Comment{ID: "c-2", AuthorID: "u-1", ParentCommentID: &parent}

	outcome, err := DecideDelete("u-1")(top, 0)
	assert.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeRemoved, outcome)

	outcome, err = DecideDelete("u-1")(top, 2)
	assert.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeSoftDeleted, outcome)

	outcome, err = DecideDelete("u-1")(reply, 0)
	assert.NoError(t, err)
	assert.Equal(t, models.DeleteOutcomeRemoved, outcome)

	_, err = DecideDelete("u-2")(top, 0)
	assert.True(t, IsForbiddenError(err))
}
