package repository

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// DraftRepository keeps one group draft per user. A user without a stored
// draft has an empty one.
type DraftRepository interface {
	Load(ctx context.Context, owner string) (chat.GroupDraft, error)

	// Update applies fn to the stored draft atomically and returns the
	// draft that was stored. An empty result removes the draft.
	Update(ctx context.Context, owner string, fn func(chat.GroupDraft) (chat.GroupDraft, error)) (chat.GroupDraft, error)

	Discard(ctx context.Context, owner string) error
}
