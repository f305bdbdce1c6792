package usecase

import (
	"context"
	"fmt"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"

	"github.com/google/uuid"
)

// ListParticipantsInput names the conversation and the user asking.
type ListParticipantsInput struct {
	ConversationID string
	Requester      string
}

// ListParticipantsUseCase returns the usernames of a conversation in join
// order. Only participants may list it.
type ListParticipantsUseCase struct {
	Repo repository.ChatRepository
}

func NewListParticipantsUseCase(repo repository.ChatRepository) *ListParticipantsUseCase {
	return &ListParticipantsUseCase{Repo: repo}
}

func (uc *ListParticipantsUseCase) Execute(ctx context.Context, in ListParticipantsInput) ([]string, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("conversation_id is required")
	}
	if _, err := uuid.Parse(in.ConversationID); err != nil {
		return nil, chat.ErrNotParticipant
	}

	names, err := uc.Repo.ListParticipantIDs(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	for _, n := range names {
		if n == in.Requester {
			return names, nil
		}
	}
	return nil, chat.ErrNotParticipant
}
