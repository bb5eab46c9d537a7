package models

import "strings"

// ReactionType is the kind of emoji reaction a user left on a comment
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists every supported reaction in display order
var ReactionTypes = []ReactionType{
	ReactionLike,
	ReactionLove,
	ReactionLaugh,
	ReactionWow,
	ReactionSad,
	ReactionAngry,
}

var reactionEmoji = map[ReactionType]string{
	ReactionLike:  "👍",
	ReactionLove:  "❤️",
	ReactionLaugh: "😂",
	ReactionWow:   "😮",
	ReactionSad:   "😢",
	ReactionAngry: "😠",
}

// ParseReactionType validates a raw reaction name
func ParseReactionType(raw string) (ReactionType, bool) {
	rt := ReactionType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := reactionEmoji[rt]; !ok {
		return "", false
	}
	return rt, true
}

// IsValid reports whether the reaction type is supported
func (rt ReactionType) IsValid() bool {
	_, ok := reactionEmoji[rt]
	return ok
}

// Emoji returns the emoji shown for the reaction type
func (rt ReactionType) Emoji() string {
	return reactionEmoji[rt]
}

// ValidReactionNames returns the reaction names joined for error messages
func ValidReactionNames() string {
	names := make([]string, len(ReactionTypes))
	for i, rt := range ReactionTypes {
		names[i] = string(rt)
	}
	return strings.Join(names, ", ")
}

// ReactionSummary maps a reaction type to the number of users who chose it
type ReactionSummary map[ReactionType]int

// Total returns the number of reactions across all types
func (s ReactionSummary) Total() int {
	total := 0
	for _, count := range s {
		total += count
	}
	return total
}

// SummarizeReactions derives a summary from a per-user reaction map.
// Types with no reactions are omitted.
func SummarizeReactions(reactions map[string]ReactionType) ReactionSummary {
	summary := ReactionSummary{}
	for _, rt := range reactions {
		summary[rt]++
	}
	return summary
}

// ReactionChange classifies the effect of a reaction request
type ReactionChange string

const (
	ReactionAdded     ReactionChange = "added"
	ReactionReplaced  ReactionChange = "replaced"
	ReactionRemoved   ReactionChange = "removed"
	ReactionUnchanged ReactionChange = "unchanged"
)

// Notifies reports whether the change should produce a reaction notification
func (c ReactionChange) Notifies() bool {
	return c == ReactionAdded || c == ReactionReplaced
}

// ReactionMutator decides a user's next reaction from their current one.
// A nil result clears the reaction.
type ReactionMutator func(current *ReactionType) (next *ReactionType, change ReactionChange)

// ReactionResult is the state of a comment's reactions after a mutation
type ReactionResult struct {
	Comment      *Comment
	UserReaction *ReactionType
	Change       ReactionChange
}
