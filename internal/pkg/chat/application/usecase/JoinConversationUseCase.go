package usecase

import (
	"context"
	"fmt"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"

	"github.com/google/uuid"
)

// JoinConversationInput asks to attach a user session to a conversation room.
type JoinConversationInput struct {
	ConversationID string
	Username       string
}

// JoinConversationUseCase lets a session into a room only when its user takes
// part in the conversation.
type JoinConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinConversationUseCase(repo repository.ChatRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == "" || in.Username == "" {
		return fmt.Errorf("conversation_id and username are required")
	}
	// Malformed ids cannot name a conversation anyone is in.
	if _, err := uuid.Parse(in.ConversationID); err != nil {
		return chat.ErrNotParticipant
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.Username)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}
	return nil
}
