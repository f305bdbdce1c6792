package task

import (
	"context"
	"errors"
	"testing"

	qport "go-convo/internal/infrastructure/queue/port"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addedRecorder struct {
	users []string
}

func (a *addedRecorder) OpenConversation(context.Context, string, chat.Descriptor) {}

func (a *addedRecorder) ConversationAdded(_ context.Context, username string, _ chat.Descriptor) {
	a.users = append(a.users, username)
}

func (a *addedRecorder) Notify(context.Context, string, chat.Notification) {}

type captureServer struct {
	handlers map[string]qport.Handler
}

func (s *captureServer) Register(taskType string, h qport.Handler) {
	if s.handlers == nil {
		s.handlers = map[string]qport.Handler{}
	}
	s.handlers[taskType] = h
}

func (s *captureServer) Run(context.Context) error { return nil }

func TestConversationOpenedTask(t *testing.T) {
	rec := &addedRecorder{}
	srv := &captureServer{}
	RegisterConversationOpenedTask(srv, rec, zerolog.Nop())

	h, ok := srv.handlers["conversation:opened"]
	require.True(t, ok)

	err := h(context.Background(), qport.Task{
		Type:    "conversation:opened",
		Payload: []byte(`{"conversation":{"id":"c-1","type":"group","participants":["alice","bob","carol"],"name":"Trip","avatar":""},"initiator":"alice"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, rec.users)
}

func TestConversationOpenedTask_BadPayloadSkipsRetry(t *testing.T) {
	h := NewConversationOpenedHandler(&addedRecorder{}, zerolog.Nop())

	err := h(context.Background(), qport.Task{Type: "conversation:opened", Payload: []byte(`{`)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = h(context.Background(), qport.Task{Type: "conversation:opened", Payload: []byte(`{}`)})
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
