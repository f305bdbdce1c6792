package adapter

import (
	"context"
	"encoding/json"
	"strconv"

	"go-convo/internal/infrastructure/metrics"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/rs/zerolog"
)

const (
	FrameConversationOpen  = "conversation.open"
	FrameConversationAdded = "conversation.added"
	FrameNotification      = "notification"
)

// LocalDelivery hands a frame to a session held by this node.
type LocalDelivery interface {
	NotifyUser(username string, payload []byte) bool
}

// Publisher fans a frame out to every node.
type Publisher interface {
	Publish(username string, payload []byte) error
}

type conversationFrame struct {
	Type         string          `json:"type"`
	Conversation chat.Descriptor `json:"conversation"`
	CloseModals  bool            `json:"close_modals,omitempty"`
}

type notificationFrame struct {
	Type string `json:"type"`
	chat.Notification
}

// RealtimeNotifier delivers frames through the websocket router, or through
// the publisher when the deployment runs several nodes.
type RealtimeNotifier struct {
	local LocalDelivery
	bus   Publisher
	log   zerolog.Logger
}

// NewRealtimeNotifier builds a notifier. bus may be nil for single-node runs.
func NewRealtimeNotifier(local LocalDelivery, bus Publisher, log zerolog.Logger) *RealtimeNotifier {
	return &RealtimeNotifier{local: local, bus: bus, log: log}
}

func (n *RealtimeNotifier) OpenConversation(ctx context.Context, username string, d chat.Descriptor) {
	n.push(ctx, username, FrameConversationOpen, conversationFrame{
		Type:         FrameConversationOpen,
		Conversation: d,
		CloseModals:  true,
	})
}

func (n *RealtimeNotifier) ConversationAdded(ctx context.Context, username string, d chat.Descriptor) {
	n.push(ctx, username, FrameConversationAdded, conversationFrame{
		Type:         FrameConversationAdded,
		Conversation: d,
	})
}

func (n *RealtimeNotifier) Notify(ctx context.Context, username string, note chat.Notification) {
	n.push(ctx, username, FrameNotification, notificationFrame{
		Type:         FrameNotification,
		Notification: note,
	})
}

func (n *RealtimeNotifier) push(_ context.Context, username, kind string, frame any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		n.log.Error().Err(err).Str("kind", kind).Msg("encode frame")
		return
	}

	delivered := false
	if n.bus != nil {
		if err := n.bus.Publish(username, payload); err == nil {
			delivered = true
		} else {
			n.log.Warn().Err(err).Str("kind", kind).Str("user", username).Msg("publish failed, delivering locally")
		}
	}
	if !delivered {
		delivered = n.local.NotifyUser(username, payload)
	}
	metrics.NotificationsPushed.WithLabelValues(kind, strconv.FormatBool(delivered)).Inc()
}
