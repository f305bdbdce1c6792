package usecase

import (
	"context"
	"fmt"
	"sync"

	qport "go-convo/internal/infrastructure/queue/port"
	chat "go-convo/internal/pkg/chat/application/domain"
	directory "go-convo/internal/pkg/directory/application/domain"
)

var (
	alice = directory.User{Username: "alice", DisplayName: "Alice"}
	bob   = directory.User{Username: "bob", DisplayName: "Bob Lee", Avatar: "https://img/bob.png"}
	carol = directory.User{Username: "carol", DisplayName: "Carol"}
)

type fakeUsers map[string]directory.User

func (f fakeUsers) FindByUsername(_ context.Context, username string) (directory.User, error) {
	if u, ok := f[username]; ok {
		return u, nil
	}
	return directory.User{}, directory.ErrUserNotFound
}

func everyone() fakeUsers {
	return fakeUsers{"alice": alice, "bob": bob, "carol": carol}
}

type fakeChatRepo struct {
	mu            sync.Mutex
	conversations []chat.Conversation
	err           error
	calls         int
}

func (f *fakeChatRepo) FindDirectConversations(_ context.Context, username string) ([]chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []chat.Conversation
	for _, c := range f.conversations {
		if c.Type == chat.ConversationTypeDirect && c.HasParticipant(username) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) CreateDirectConversation(_ context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return chat.Conversation{}, false, f.err
	}
	for _, existing := range f.conversations {
		if existing.DirectKey == c.DirectKey {
			return existing, false, nil
		}
	}
	c.ID = fmt.Sprintf("conv-%d", len(f.conversations)+1)
	f.conversations = append(f.conversations, c)
	return c, true, nil
}

func (f *fakeChatRepo) CreateConversation(_ context.Context, c chat.Conversation) (chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return chat.Conversation{}, f.err
	}
	c.ID = fmt.Sprintf("conv-%d", len(f.conversations)+1)
	f.conversations = append(f.conversations, c)
	return c, nil
}

func (f *fakeChatRepo) IsParticipant(_ context.Context, conversationID, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.conversations {
		if c.ID == conversationID {
			return c.HasParticipant(username), nil
		}
	}
	return false, nil
}

func (f *fakeChatRepo) ListParticipantIDs(_ context.Context, conversationID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.conversations {
		if c.ID == conversationID {
			return c.Participants, nil
		}
	}
	return nil, nil
}

type fakeDrafts struct {
	mu     sync.Mutex
	drafts map[string]chat.GroupDraft
	err    error
}

func newFakeDrafts() *fakeDrafts { return &fakeDrafts{drafts: map[string]chat.GroupDraft{}} }

func (f *fakeDrafts) Load(_ context.Context, owner string) (chat.GroupDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return chat.GroupDraft{}, f.err
	}
	return f.drafts[owner], nil
}

func (f *fakeDrafts) Update(_ context.Context, owner string, fn func(chat.GroupDraft) (chat.GroupDraft, error)) (chat.GroupDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return chat.GroupDraft{}, f.err
	}
	next, err := fn(f.drafts[owner])
	if err != nil {
		return chat.GroupDraft{}, err
	}
	if next.Len() == 0 {
		delete(f.drafts, owner)
	} else {
		f.drafts[owner] = next
	}
	return next, nil
}

func (f *fakeDrafts) Discard(_ context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.drafts, owner)
	return nil
}

type pushed struct {
	kind     string
	username string
	desc     chat.Descriptor
	note     chat.Notification
}

type recordingNotifier struct {
	mu     sync.Mutex
	frames []pushed
}

func (r *recordingNotifier) OpenConversation(_ context.Context, username string, d chat.Descriptor) {
	r.add(pushed{kind: "open", username: username, desc: d})
}

func (r *recordingNotifier) ConversationAdded(_ context.Context, username string, d chat.Descriptor) {
	r.add(pushed{kind: "added", username: username, desc: d})
}

func (r *recordingNotifier) Notify(_ context.Context, username string, n chat.Notification) {
	r.add(pushed{kind: "notify", username: username, note: n})
}

func (r *recordingNotifier) add(p pushed) {
	r.mu.Lock()
	r.frames = append(r.frames, p)
	r.mu.Unlock()
}

func (r *recordingNotifier) ofKind(kind string) []pushed {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pushed
	for _, f := range r.frames {
		if f.kind == kind {
			out = append(out, f)
		}
	}
	return out
}

type fakeQueue struct {
	tasks []qport.Task
	opts  []qport.EnqueueOption
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, t)
	q.opts = append(q.opts, opts...)
	return fmt.Sprintf("task-%d", len(q.tasks)), nil
}

func (q *fakeQueue) Close() error { return nil }
