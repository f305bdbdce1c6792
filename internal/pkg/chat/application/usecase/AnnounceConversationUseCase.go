package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	qport "go-convo/internal/infrastructure/queue/port"
	chat "go-convo/internal/pkg/chat/application/domain"
	notification "go-convo/internal/pkg/chat/notification/port"

	"github.com/rs/zerolog"
)

// ConversationOpenedTaskType is the queue task that tells the other
// participants about a conversation someone just created.
const ConversationOpenedTaskType = "conversation:opened"

// announceDedupWindow keeps a retried create request from queueing the same
// announcement twice.
const announceDedupWindow = time.Minute

// ConversationOpenedPayload is the JSON payload of ConversationOpenedTaskType.
type ConversationOpenedPayload struct {
	Conversation chat.Descriptor `json:"conversation"`
	Initiator    string          `json:"initiator"`
}

// AnnounceConversationInput names the new conversation and who opened it.
type AnnounceConversationInput struct {
	Conversation chat.Descriptor
	Initiator    string
}

// AnnounceConversationUseCase pushes conversation.added to every participant
// except the initiator, whose client already opened the conversation.
type AnnounceConversationUseCase struct {
	Notifier notification.Notifier
}

func NewAnnounceConversationUseCase(n notification.Notifier) *AnnounceConversationUseCase {
	return &AnnounceConversationUseCase{Notifier: n}
}

// Execute returns the number of participants notified.
func (uc *AnnounceConversationUseCase) Execute(ctx context.Context, in AnnounceConversationInput) (int, error) {
	if in.Conversation.ID == "" {
		return 0, fmt.Errorf("conversation id is required")
	}
	notified := 0
	for _, username := range in.Conversation.Participants {
		if username == in.Initiator {
			continue
		}
		uc.Notifier.ConversationAdded(ctx, username, in.Conversation)
		notified++
	}
	return notified, nil
}

// announcer schedules the fan-out in the background and falls back to doing
// it inline when the queue is unavailable.
type announcer struct {
	queue  qport.Client
	inline *AnnounceConversationUseCase
	log    zerolog.Logger
}

func (a announcer) announce(ctx context.Context, d chat.Descriptor, initiator string) {
	if a.queue != nil {
		payload, err := json.Marshal(ConversationOpenedPayload{Conversation: d, Initiator: initiator})
		if err == nil {
			_, err = a.queue.Enqueue(ctx, qport.Task{Type: ConversationOpenedTaskType, Payload: payload}, qport.EnqueueOption{
				Queue:     "chat",
				MaxRetry:  5,
				Timeout:   30 * time.Second,
				UniqueTTL: announceDedupWindow,
			})
		}
		if err == nil || errors.Is(err, qport.ErrDuplicateTask) {
			return
		}
		a.log.Warn().Err(err).Str("conversation_id", d.ID).Msg("enqueue announcement failed, announcing inline")
	}
	if _, err := a.inline.Execute(ctx, AnnounceConversationInput{Conversation: d, Initiator: initiator}); err != nil {
		a.log.Error().Err(err).Str("conversation_id", d.ID).Msg("announce conversation")
	}
}
