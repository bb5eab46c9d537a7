package services

import (
	"socialfeed/internal/models"
	"socialfeed/internal/repositories"
)

// ToggleReaction adds the requested reaction, removes it when the user already
// chose the same type, and replaces any other type.
func ToggleReaction(requested models.ReactionType) models.ReactionMutator {
	return func(current *models.ReactionType) (*models.ReactionType, models.ReactionChange) {
		next := requested
		switch {
		case current == nil:
			return &next, models.ReactionAdded
		case *current == requested:
			return nil, models.ReactionRemoved
		default:
			return &next, models.ReactionReplaced
		}
	}
}

// RemoveReaction clears the user's reaction only when it matches target
func RemoveReaction(target models.ReactionType) models.ReactionMutator {
	return func(current *models.ReactionType) (*models.ReactionType, models.ReactionChange) {
		if current == nil {
			return nil, models.ReactionUnchanged
		}
		if *current == target {
			return nil, models.ReactionRemoved
		}
		kept := *current
		return &kept, models.ReactionUnchanged
	}
}

// DecideDelete enforces ownership and picks hard or soft delete from the live
// reply count. It runs while the store holds the comment exclusively.
func DecideDelete(requesterID string) repositories.DeleteDecider {
	return func(comment *models.Comment, replyCount int) (models.DeleteOutcome, error) {
		if comment.AuthorID != requesterID {
			return "", NewForbiddenError(MsgDeleteForbidden)
		}
		if comment.IsTopLevel() && replyCount > 0 {
			return models.DeleteOutcomeSoftDeleted, nil
		}
		return models.DeleteOutcomeRemoved, nil
	}
}
