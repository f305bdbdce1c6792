package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-convo/internal/infrastructure/metrics"
	qport "go-convo/internal/infrastructure/queue/port"
	chat "go-convo/internal/pkg/chat/application/domain"
	notification "go-convo/internal/pkg/chat/notification/port"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/rs/zerolog"
)

// CreateDirectChatInput is the session user and the username they picked.
type CreateDirectChatInput struct {
	Current        directory.User
	TargetUsername string
}

// CreateDirectChatOutput is the conversation to open. Created is false when an
// existing conversation between the two users was reused.
type CreateDirectChatOutput struct {
	Conversation chat.Descriptor
	Created      bool
}

// CreateDirectChatUseCase opens the one-to-one conversation between the
// session user and another user, creating it only if the pair has none.
type CreateDirectChatUseCase struct {
	Repo     repository.ChatRepository
	Users    UserDirectory
	Notifier notification.Notifier
	log      zerolog.Logger
	announce announcer
}

func NewCreateDirectChatUseCase(repo repository.ChatRepository, users UserDirectory, n notification.Notifier, queue qport.Client, log zerolog.Logger) *CreateDirectChatUseCase {
	return &CreateDirectChatUseCase{
		Repo:     repo,
		Users:    users,
		Notifier: n,
		log:      log,
		announce: announcer{queue: queue, inline: NewAnnounceConversationUseCase(n), log: log},
	}
}

func (uc *CreateDirectChatUseCase) Execute(ctx context.Context, in CreateDirectChatInput) (*CreateDirectChatOutput, error) {
	current := in.Current.Username
	targetName := strings.TrimSpace(in.TargetUsername)
	if targetName == "" {
		metrics.ValidationRejections.WithLabelValues("direct_target_missing").Inc()
		return nil, chat.ErrUsernameRequired
	}
	if targetName == current {
		metrics.ValidationRejections.WithLabelValues("direct_self").Inc()
		return nil, chat.ErrSelfConversation
	}

	target, err := uc.Users.FindByUsername(ctx, targetName)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			uc.log.Warn().Str("user", current).Str("target", targetName).Msg("direct chat target not found")
			uc.notifyFailed(ctx, current)
			return nil, err
		}
		return nil, uc.fail(ctx, current, "find_user", err)
	}

	existing, err := uc.Repo.FindDirectConversations(ctx, current)
	if err != nil {
		return nil, uc.fail(ctx, current, "find_direct_conversations", err)
	}

	out := &CreateDirectChatOutput{}
	conversationID := ""
	for _, c := range existing {
		if c.HasParticipant(target.Username) {
			conversationID = c.ID
			break
		}
	}

	if conversationID == "" {
		stored, created, err := uc.Repo.CreateDirectConversation(ctx, chat.NewDirectConversation(current, target))
		if err != nil {
			return nil, uc.fail(ctx, current, "create_direct_conversation", err)
		}
		conversationID = stored.ID
		out.Created = created
	}

	out.Conversation = chat.Descriptor{
		ID:           conversationID,
		Type:         chat.ConversationTypeDirect,
		Participants: []string{current, target.Username},
		Name:         target.DisplayName,
		Avatar:       target.Avatar,
	}

	uc.Notifier.OpenConversation(ctx, current, out.Conversation)
	if out.Created {
		metrics.ConversationsCreated.WithLabelValues(string(chat.ConversationTypeDirect)).Inc()
		uc.announce.announce(ctx, out.Conversation, current)
	} else {
		metrics.DirectConversationsReused.Inc()
	}
	return out, nil
}

func (uc *CreateDirectChatUseCase) fail(ctx context.Context, user, op string, err error) error {
	uc.log.Error().Err(err).Str("op", op).Str("user", user).Msg("error creating chat")
	uc.notifyFailed(ctx, user)
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func (uc *CreateDirectChatUseCase) notifyFailed(ctx context.Context, user string) {
	uc.Notifier.Notify(ctx, user, chat.Notification{Message: chat.MsgDirectFailed, Severity: chat.SeverityError})
}
