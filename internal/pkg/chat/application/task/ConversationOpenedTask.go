package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	qport "go-convo/internal/infrastructure/queue/port"
	"go-convo/internal/pkg/chat/application/usecase"
	notification "go-convo/internal/pkg/chat/notification/port"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// RegisterConversationOpenedTask binds the fan-out handler for newly created
// conversations to srv.
func RegisterConversationOpenedTask(srv qport.Server, n notification.Notifier, log zerolog.Logger) {
	srv.Register(usecase.ConversationOpenedTaskType, NewConversationOpenedHandler(n, log))
}

// NewConversationOpenedHandler returns the queue handler that tells every
// participant except the initiator about the conversation.
func NewConversationOpenedHandler(n notification.Notifier, log zerolog.Logger) qport.Handler {
	uc := usecase.NewAnnounceConversationUseCase(n)
	return func(ctx context.Context, t qport.Task) error {
		var p usecase.ConversationOpenedPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying cannot help
			return fmt.Errorf("decode %s payload: %v: %w", t.Type, err, asynq.SkipRetry)
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		notified, err := uc.Execute(ctx, usecase.AnnounceConversationInput{
			Conversation: p.Conversation,
			Initiator:    p.Initiator,
		})
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		log.Debug().
			Str("conversation_id", p.Conversation.ID).
			Str("initiator", p.Initiator).
			Int("notified", notified).
			Msg("conversation announced")
		return nil
	}
}
