package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	chat "go-convo/internal/pkg/chat/application/domain"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGroupMember_Idempotent(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDrafts()
	uc := NewAddGroupMemberUseCase(drafts, everyone())

	for i := 0; i < 3; i++ {
		d, err := uc.Execute(ctx, GroupMemberInput{Owner: "alice", Username: "bob"})
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, d.Usernames())
	}
}

func TestAddGroupMember_ConcurrentSelectionsAreKept(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDrafts()
	users := everyone()
	for _, name := range []string{"dave", "erin", "frank", "grace"} {
		users[name] = directory.User{Username: name, DisplayName: name}
	}
	uc := NewAddGroupMemberUseCase(drafts, users)

	picks := []string{"bob", "carol", "dave", "erin", "frank", "grace"}
	var wg sync.WaitGroup
	for _, name := range picks {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := uc.Execute(ctx, GroupMemberInput{Owner: "alice", Username: name})
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	d, err := NewGetGroupDraftUseCase(drafts).Execute(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, picks, d.Usernames())
}

func TestAddGroupMember_Rejects(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDrafts()
	uc := NewAddGroupMemberUseCase(drafts, everyone())

	_, err := uc.Execute(ctx, GroupMemberInput{Owner: "alice", Username: "alice"})
	assert.ErrorIs(t, err, chat.ErrSelfMember)

	_, err = uc.Execute(ctx, GroupMemberInput{Owner: "alice", Username: ""})
	assert.ErrorIs(t, err, chat.ErrUsernameRequired)

	_, err = uc.Execute(ctx, GroupMemberInput{Owner: "alice", Username: "dave"})
	assert.ErrorIs(t, err, directory.ErrUserNotFound)

	assert.Empty(t, drafts.drafts)
}

func TestDraftsArePerOwner(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDrafts()
	add := NewAddGroupMemberUseCase(drafts, everyone())
	get := NewGetGroupDraftUseCase(drafts)

	_, err := add.Execute(ctx, GroupMemberInput{Owner: "alice", Username: "bob"})
	require.NoError(t, err)
	_, err = add.Execute(ctx, GroupMemberInput{Owner: "carol", Username: "alice"})
	require.NoError(t, err)

	d, err := get.Execute(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, d.Usernames())

	d, err = get.Execute(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, d.Usernames())
}

func TestRemoveAndDiscard(t *testing.T) {
	ctx := context.Background()
	drafts := newFakeDrafts()
	drafts.drafts["alice"] = chat.NewGroupDraft(bob, carol)

	d, err := NewRemoveGroupMemberUseCase(drafts).Execute(ctx, GroupMemberInput{Owner: "alice", Username: "dave"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, d.Usernames())

	require.NoError(t, NewDiscardGroupDraftUseCase(drafts).Execute(ctx, "alice"))
	d, err = NewGetGroupDraftUseCase(drafts).Execute(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestDraftStoreFailure(t *testing.T) {
	drafts := &fakeDrafts{err: errors.New("redis down")}

	_, err := NewGetGroupDraftUseCase(drafts).Execute(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrPersistence)

	_, err = NewAddGroupMemberUseCase(drafts, everyone()).Execute(context.Background(), GroupMemberInput{Owner: "alice", Username: "bob"})
	assert.ErrorIs(t, err, ErrPersistence)

	_, err = NewRemoveGroupMemberUseCase(drafts).Execute(context.Background(), GroupMemberInput{Owner: "alice", Username: "bob"})
	assert.ErrorIs(t, err, ErrPersistence)

	assert.ErrorIs(t, NewDiscardGroupDraftUseCase(drafts).Execute(context.Background(), "alice"), ErrPersistence)
}
