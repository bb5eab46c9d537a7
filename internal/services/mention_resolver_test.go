package services

import (
	"context"
	"errors"
	"testing"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractHandles(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"none", "no mentions here", []string{}},
		{"start of text", "@alice hi", []string{"alice"}},
		{"punctuation before", "hi (@bob), and @carol!", []string{"bob", "carol"}},
		{"email is not a mention", "write to me@alice.dev", []string{}},
		{"duplicates keep first order", "@b @a @b @a", []string{"b", "a"}},
		{"underscore and digits", "@user_42 @_x", []string{"user_42", "_x"}},
		{"bare at sign", "@ @@ @-", []string{}},
		{"double at", "@@alice", []string{"alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractHandles(tt.text))
		})
	}
}

// failingUsers fails lookups for one handle and delegates the rest
type failingUsers struct {
	repositories.UserDirectory
	failHandle string
}

func (u failingUsers) ResolveByHandle(ctx context.Context, handle string) (string, bool, error) {
	if handle == u.failHandle {
		return "", false, errors.New("directory unavailable")
	}
	return u.UserDirectory.ResolveByHandle(ctx, handle)
}

func TestMentionResolver_Resolve(t *testing.T) {
	directory := repositories.NewMemoryDirectory()
	directory.AddUser(models.UserProfile{ID: "u-1", Username: "alice"})
	directory.AddUser(models.UserProfile{ID: "u-2", Username: "bob"})
	directory.AddUser(models.UserProfile{ID: "u-3", Username: "carol"})

	resolver := NewMentionResolver(failingUsers{UserDirectory: directory.Users(), failHandle: "bob"}, zap.NewNop())

	ids := resolver.Resolve(context.Background(), "@carol @bob @nobody @alice @carol")
	assert.Equal(t, []string{"u-3", "u-1"}, ids)

	assert.Equal(t, []string{}, resolver.Resolve(context.Background(), "plain text"))
}

func TestNewMentions(t *testing.T) {
	assert.Equal(t, []string{"c"}, newMentions([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, []string{}, newMentions([]string{"a"}, []string{"a"}))
	assert.Equal(t, []string{"a"}, newMentions(nil, []string{"a"}))
}
