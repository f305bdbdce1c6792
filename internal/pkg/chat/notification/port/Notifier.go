package notification

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// Notifier pushes frames to a user's live session. Delivery is best effort:
// a user without a session simply misses the frame.
type Notifier interface {
	// OpenConversation tells username's client to switch to the conversation
	// and close any open dialog.
	OpenConversation(ctx context.Context, username string, d chat.Descriptor)
	// ConversationAdded announces a conversation someone else started.
	ConversationAdded(ctx context.Context, username string, d chat.Descriptor)
	Notify(ctx context.Context, username string, n chat.Notification)
}
