package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-convo/internal/infrastructure/metrics"
	qport "go-convo/internal/infrastructure/queue/port"
	chat "go-convo/internal/pkg/chat/application/domain"
	notification "go-convo/internal/pkg/chat/notification/port"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/rs/zerolog"
)

// CreateGroupInput carries the create-group dialog: name, description and the
// member selection.
type CreateGroupInput struct {
	Creator     directory.User
	Name        string
	Description string
	Draft       chat.GroupDraft
}

// CreateGroupUseCase validates the dialog and stores the group with the
// creator as first participant and sole admin.
type CreateGroupUseCase struct {
	Repo     repository.ChatRepository
	Notifier notification.Notifier
	log      zerolog.Logger
	announce announcer
}

func NewCreateGroupUseCase(repo repository.ChatRepository, n notification.Notifier, queue qport.Client, log zerolog.Logger) *CreateGroupUseCase {
	return &CreateGroupUseCase{
		Repo:     repo,
		Notifier: n,
		log:      log,
		announce: announcer{queue: queue, inline: NewAnnounceConversationUseCase(n), log: log},
	}
}

func (uc *CreateGroupUseCase) Execute(ctx context.Context, in CreateGroupInput) (*chat.Descriptor, error) {
	creator := in.Creator.Username

	conv, err := chat.NewGroupConversation(creator, in.Name, in.Description, in.Draft)
	if err != nil {
		// Validation failures go back to the user only.
		msg, reason := chat.MsgGroupFailed, "group_invalid"
		switch {
		case errors.Is(err, chat.ErrGroupNameRequired):
			msg, reason = chat.MsgGroupNameRequired, "group_name_missing"
		case errors.Is(err, chat.ErrGroupMembersRequired):
			msg, reason = chat.MsgGroupMembersRequired, "group_members_missing"
		}
		metrics.ValidationRejections.WithLabelValues(reason).Inc()
		uc.Notifier.Notify(ctx, creator, chat.Notification{Message: msg, Severity: chat.SeverityError})
		return nil, err
	}

	stored, err := uc.Repo.CreateConversation(ctx, conv)
	if err != nil {
		uc.log.Error().Err(err).Str("op", "create_group").Str("user", creator).Msg("error creating group")
		uc.Notifier.Notify(ctx, creator, chat.Notification{Message: chat.MsgGroupFailed, Severity: chat.SeverityError})
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	metrics.ConversationsCreated.WithLabelValues(string(chat.ConversationTypeGroup)).Inc()

	d := stored.Descriptor()
	uc.Notifier.OpenConversation(ctx, creator, d)
	uc.announce.announce(ctx, d, creator)
	uc.Notifier.Notify(ctx, creator, chat.Notification{Message: chat.MsgGroupCreated, Severity: chat.SeveritySuccess})
	return &d, nil
}
