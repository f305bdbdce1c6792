package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-convo/internal/infrastructure/metrics"
	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
	directory "go-convo/internal/pkg/directory/application/domain"
)

// GetGroupDraftUseCase returns the owner's current member selection.
type GetGroupDraftUseCase struct {
	Drafts repository.DraftRepository
}

func NewGetGroupDraftUseCase(drafts repository.DraftRepository) *GetGroupDraftUseCase {
	return &GetGroupDraftUseCase{Drafts: drafts}
}

func (uc *GetGroupDraftUseCase) Execute(ctx context.Context, owner string) (chat.GroupDraft, error) {
	d, err := uc.Drafts.Load(ctx, owner)
	if err != nil {
		return chat.GroupDraft{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return d, nil
}

// GroupMemberInput names the draft owner and the member to add or remove.
type GroupMemberInput struct {
	Owner    string
	Username string
}

// AddGroupMemberUseCase selects a directory user for the owner's group draft.
// Selecting someone twice leaves the draft unchanged.
type AddGroupMemberUseCase struct {
	Drafts repository.DraftRepository
	Users  UserDirectory
}

func NewAddGroupMemberUseCase(drafts repository.DraftRepository, users UserDirectory) *AddGroupMemberUseCase {
	return &AddGroupMemberUseCase{Drafts: drafts, Users: users}
}

func (uc *AddGroupMemberUseCase) Execute(ctx context.Context, in GroupMemberInput) (chat.GroupDraft, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return chat.GroupDraft{}, chat.ErrUsernameRequired
	}
	if username == in.Owner {
		return chat.GroupDraft{}, chat.ErrSelfMember
	}

	user, err := uc.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return chat.GroupDraft{}, err
		}
		return chat.GroupDraft{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	changed := false
	d, err := uc.Drafts.Update(ctx, in.Owner, func(cur chat.GroupDraft) (chat.GroupDraft, error) {
		changed = !cur.Contains(user.Username)
		return cur.With(user), nil
	})
	if err != nil {
		return chat.GroupDraft{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if changed {
		metrics.DraftMutations.WithLabelValues("add").Inc()
	}
	return d, nil
}

// RemoveGroupMemberUseCase drops a member from the owner's draft. Removing a
// user that is not selected is a no-op.
type RemoveGroupMemberUseCase struct {
	Drafts repository.DraftRepository
}

func NewRemoveGroupMemberUseCase(drafts repository.DraftRepository) *RemoveGroupMemberUseCase {
	return &RemoveGroupMemberUseCase{Drafts: drafts}
}

func (uc *RemoveGroupMemberUseCase) Execute(ctx context.Context, in GroupMemberInput) (chat.GroupDraft, error) {
	changed := false
	d, err := uc.Drafts.Update(ctx, in.Owner, func(cur chat.GroupDraft) (chat.GroupDraft, error) {
		changed = cur.Contains(in.Username)
		return cur.Without(in.Username), nil
	})
	if err != nil {
		return chat.GroupDraft{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if changed {
		metrics.DraftMutations.WithLabelValues("remove").Inc()
	}
	return d, nil
}

// DiscardGroupDraftUseCase resets the dialog: the selection is dropped.
type DiscardGroupDraftUseCase struct {
	Drafts repository.DraftRepository
}

func NewDiscardGroupDraftUseCase(drafts repository.DraftRepository) *DiscardGroupDraftUseCase {
	return &DiscardGroupDraftUseCase{Drafts: drafts}
}

func (uc *DiscardGroupDraftUseCase) Execute(ctx context.Context, owner string) error {
	if err := uc.Drafts.Discard(ctx, owner); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	metrics.DraftMutations.WithLabelValues("discard").Inc()
	return nil
}
