package models

import (
	"sort"
	"strings"
)

// SortMode selects how comment lists are ordered
type SortMode string

const (
	SortNewest      SortMode = "newest"
	SortMostLiked   SortMode = "most_liked"
	SortMostReplied SortMode = "most_replied"
)

// Pagination defaults for top-level comment lists
const (
	DefaultCommentLimit = 20
	MaxCommentLimit     = 100
)

// ParseSortMode maps a query value to a sort mode, falling back to newest
func ParseSortMode(raw string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(raw))) {
	case SortMostLiked:
		return SortMostLiked
	case SortMostReplied:
		return SortMostReplied
	default:
		return SortNewest
	}
}

// Less reports whether a sorts before b under the mode.
// Ties fall back to created_at descending, then id descending.
func (m SortMode) Less(a, b *Comment) bool {
	switch m {
	case SortMostLiked:
		if a.LikeCount != b.LikeCount {
			return a.LikeCount > b.LikeCount
		}
	case SortMostReplied:
		if a.ReplyCount != b.ReplyCount {
			return a.ReplyCount > b.ReplyCount
		}
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// SortComments orders comments in place
func SortComments(comments []*Comment, mode SortMode) {
	sort.SliceStable(comments, func(i, j int) bool {
		return mode.Less(comments[i], comments[j])
	})
}

// Page is a normalized limit/offset window
type Page struct {
	Limit  int
	Offset int
}

// NormalizePage clamps limit into [1, MaxCommentLimit] and offset to >= 0
func NormalizePage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultCommentLimit
	}
	if limit > MaxCommentLimit {
		limit = MaxCommentLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// Slice applies the page window to an already-sorted list
func (p Page) Slice(comments []*Comment) []*Comment {
	if p.Offset >= len(comments) {
		return []*Comment{}
	}
	end := p.Offset + p.Limit
	if end > len(comments) {
		end = len(comments)
	}
	return comments[p.Offset:end]
}
