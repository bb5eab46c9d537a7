package repositories

import (
	"context"
	"sync"

	"socialfeed/internal/models"
)

// MemoryDirectory is an in-process post and user directory
type MemoryDirectory struct {
	mu            sync.RWMutex
	posts         map[string]string // post id -> author id
	commentCounts map[string]int
	users         map[string]*models.UserProfile
	handles       map[string]string // username -> user id
}

// NewMemoryDirectory creates an empty directory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		posts:         make(map[string]string),
		commentCounts: make(map[string]int),
		users:         make(map[string]*models.UserProfile),
		handles:       make(map[string]string),
	}
}

// AddUser registers a user profile. Re-adding an id with a new username renames it.
func (d *MemoryDirectory) AddUser(profile models.UserProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if previous, ok := d.users[profile.ID]; ok && d.handles[previous.Username] == profile.ID {
		delete(d.handles, previous.Username)
	}
	d.users[profile.ID] = &profile
	d.handles[profile.Username] = profile.ID
}

// AddPost registers a post and its author
func (d *MemoryDirectory) AddPost(postID, authorID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.posts[postID] = authorID
}

// CommentCount returns the tracked comment counter of a post
func (d *MemoryDirectory) CommentCount(postID string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.commentCounts[postID]
}

// Posts exposes the directory as a PostDirectory
func (d *MemoryDirectory) Posts() PostDirectory {
	return memoryPosts{d}
}

// Users exposes the directory as a UserDirectory
func (d *MemoryDirectory) Users() UserDirectory {
	return memoryUsers{d}
}

type memoryPosts struct{ d *MemoryDirectory }

func (p memoryPosts) Exists(ctx context.Context, postID string) (string, bool, error) {
	p.d.mu.RLock()
	defer p.d.mu.RUnlock()
	authorID, ok := p.d.posts[postID]
	return authorID, ok, nil
}

func (p memoryPosts) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	count := p.d.commentCounts[postID] + delta
	if count < 0 {
		count = 0
	}
	p.d.commentCounts[postID] = count
	return nil
}

type memoryUsers struct{ d *MemoryDirectory }

func (u memoryUsers) ResolveByHandle(ctx context.Context, handle string) (string, bool, error) {
	u.d.mu.RLock()
	defer u.d.mu.RUnlock()
	userID, ok := u.d.handles[handle]
	return userID, ok, nil
}

func (u memoryUsers) Exists(ctx context.Context, userID string) (bool, error) {
	u.d.mu.RLock()
	defer u.d.mu.RUnlock()
	_, ok := u.d.users[userID]
	return ok, nil
}

func (u memoryUsers) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	u.d.mu.RLock()
	defer u.d.mu.RUnlock()
	profile, ok := u.d.users[userID]
	if !ok {
		return nil, nil
	}
	clone := *profile
	return &clone, nil
}
