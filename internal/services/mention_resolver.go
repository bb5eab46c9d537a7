package services

import (
	"context"
	"regexp"

	"socialfeed/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// mentionPattern matches @handle where the @ is not preceded by a word character
var mentionPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])@([A-Za-z0-9_]+)`)

// defaultMentionConcurrency bounds parallel handle lookups per comment
const defaultMentionConcurrency = 8

// MentionResolver turns @handles in comment text into user ids
type MentionResolver struct {
	users       repositories.UserDirectory
	logger      *zap.Logger
	concurrency int
}

// NewMentionResolver creates a resolver backed by a user directory
func NewMentionResolver(users repositories.UserDirectory, logger *zap.Logger) *MentionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentionResolver{users: users, logger: logger, concurrency: defaultMentionConcurrency}
}

// ExtractHandles returns the distinct handles in text in first-appearance order
func ExtractHandles(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		handles = append(handles, m[1])
	}
	return handles
}

// Resolve looks up every handle in text and returns the ids of existing users.
// Unknown handles are dropped. A failed lookup drops only its own handle.
func (r *MentionResolver) Resolve(ctx context.Context, text string) []string {
	handles := ExtractHandles(text)
	if len(handles) == 0 {
		return []string{}
	}

	resolved := make([]string, len(handles))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, handle := range handles {
		g.Go(func() error {
			userID, ok, err := r.users.ResolveByHandle(ctx, handle)
			if err != nil {
				r.logger.Warn("Failed to resolve mention",
					zap.String("handle", handle),
					zap.Error(err),
				)
				return nil
			}
			if ok {
				resolved[i] = userID
			}
			return nil
		})
	}
	_ = g.Wait()

	ids := make([]string, 0, len(resolved))
	seen := make(map[string]struct{}, len(resolved))
	for _, id := range resolved {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// newMentions returns the ids in current that are absent from previous
func newMentions(previous, current []string) []string {
	known := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		known[id] = struct{}{}
	}
	added := []string{}
	for _, id := range current {
		if _, ok := known[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}
