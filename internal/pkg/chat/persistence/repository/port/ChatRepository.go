package repository

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for conversations and their
// participants.
type ChatRepository interface {
	// FindDirectConversations returns the direct conversations username takes
	// part in, participants in stored order.
	FindDirectConversations(ctx context.Context, username string) ([]chat.Conversation, error)

	// CreateDirectConversation inserts c unless a conversation with the same
	// direct key exists, in which case the existing one is returned and
	// created is false.
	CreateDirectConversation(ctx context.Context, c chat.Conversation) (stored chat.Conversation, created bool, err error)

	// CreateConversation writes c and its participant rows atomically and
	// returns it with the server-assigned ID and timestamps.
	CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error)

	IsParticipant(ctx context.Context, conversationID string, username string) (bool, error)
	ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
}
