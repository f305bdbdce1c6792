package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-convo/internal/infrastructure/realtime"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ChatSocketController handles the websocket endpoint that carries pushed
// frames (conversation.open, conversation.added, notification) and
// conversation presence: clients join the room of the conversation they have
// open and the other viewers are told who came and went.
type ChatSocketController struct {
	router          *realtime.Router
	joinRoomUC      *usecase.JoinConversationUseCase
	listMembersUC   *usecase.ListParticipantsUseCase
	log             zerolog.Logger
	upgrader        websocket.Upgrader
	inflightTimeout time.Duration
}

func NewChatSocketController(router *realtime.Router, join *usecase.JoinConversationUseCase, list *usecase.ListParticipantsUseCase, allowedOrigins []string, log zerolog.Logger) *ChatSocketController {
	return &ChatSocketController{
		router:        router,
		joinRoomUC:    join,
		listMembersUC: list,
		log:           log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		inflightTimeout: 5 * time.Second,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type           string   `json:"type"`
	ConversationID string   `json:"conversation_id,omitempty"`
	Username       string   `json:"username,omitempty"`
	Participants   []string `json:"participants,omitempty"`
	Online         []string `json:"online,omitempty"`
	Viewers        int      `json:"viewers,omitempty"`
}

const (
	presenceJoined = "joined"
	presenceLeft   = "left"
)

type presenceFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	Username       string `json:"username"`
	State          string `json:"state"`
	Viewers        int    `json:"viewers"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}

		ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			ctl.log.Debug().Err(err).Str("user", user.Username).Msg("websocket upgrade failed")
			return
		}

		conn := realtime.NewConnection(user.Username, ws)
		ctl.router.Attach(conn)
		rooms := make(map[string]struct{})
		defer func() {
			ctl.router.Detach(conn)
			for id := range rooms {
				ctl.announcePresence(id, conn.Username, presenceLeft)
			}
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(64 << 10)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, ackFrame{Type: "connected", Username: user.Username})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.log.Debug().Err(err).Str("user", user.Username).Msg("websocket read")
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(c.Request.Context(), conn, rooms, frame)
			case "leave":
				ctl.handleLeave(conn, rooms, frame)
			case "participants":
				ctl.handleParticipants(c.Request.Context(), conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(parent context.Context, conn *realtime.Connection, rooms map[string]struct{}, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	err := ctl.joinRoomUC.Execute(ctx, usecase.JoinConversationInput{
		ConversationID: frame.ConversationID,
		Username:       conn.Username,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	if !ctl.router.Join(frame.ConversationID, conn) {
		ctl.replyError(conn, "gone", "session is no longer attached")
		return
	}
	ctl.reply(conn, ackFrame{Type: "joined", ConversationID: frame.ConversationID, Viewers: ctl.router.RoomSize(frame.ConversationID)})
	if _, seen := rooms[frame.ConversationID]; !seen {
		rooms[frame.ConversationID] = struct{}{}
		ctl.announcePresence(frame.ConversationID, conn.Username, presenceJoined)
	}
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, rooms map[string]struct{}, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}
	ctl.router.Leave(frame.ConversationID, conn)
	ctl.reply(conn, ackFrame{Type: "left", ConversationID: frame.ConversationID})
	if _, ok := rooms[frame.ConversationID]; ok {
		delete(rooms, frame.ConversationID)
		ctl.announcePresence(frame.ConversationID, conn.Username, presenceLeft)
	}
}

// announcePresence tells the other viewers of a conversation that username
// opened or closed it.
func (ctl *ChatSocketController) announcePresence(conversationID, username, state string) {
	payload, err := json.Marshal(presenceFrame{
		Type:           "presence",
		ConversationID: conversationID,
		Username:       username,
		State:          state,
		Viewers:        ctl.router.RoomSize(conversationID),
	})
	if err != nil {
		return
	}
	ctl.router.Broadcast(conversationID, payload, username)
}

func (ctl *ChatSocketController) handleParticipants(parent context.Context, conn *realtime.Connection, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	names, err := ctl.listMembersUC.Execute(ctx, usecase.ListParticipantsInput{
		ConversationID: frame.ConversationID,
		Requester:      conn.Username,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	online := make([]string, 0, len(names))
	for _, name := range names {
		if ctl.router.Online(name) {
			online = append(online, name)
		}
	}
	ctl.reply(conn, ackFrame{Type: "participants", ConversationID: frame.ConversationID, Participants: names, Online: online})
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.log.Error().Err(err).Str("user", conn.Username).Msg("websocket request failed")
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "user is not a participant in this conversation")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	ctl.reply(conn, errorFrame{Type: "error", Code: code, Error: message})
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, frame any) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
