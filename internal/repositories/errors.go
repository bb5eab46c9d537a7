package repositories

import "errors"

var (
	// ErrCommentNotFound is returned when a comment is absent, or tombstoned for
	// operations that require a live comment
	ErrCommentNotFound = errors.New("comment not found")

	// ErrParentNotFound is returned when a reply targets a parent that is absent,
	// deleted, itself a reply, or attached to another post
	ErrParentNotFound = errors.New("parent comment not found")

	// ErrConcurrentUpdate is returned when an optimistic update keeps losing races
	ErrConcurrentUpdate = errors.New("comment was modified concurrently")
)
