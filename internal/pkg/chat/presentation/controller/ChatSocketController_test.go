package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-convo/internal/infrastructure/middleware"
	"go-convo/internal/infrastructure/realtime"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roomID = "5b0c7c8e-3a43-4a4e-9d55-0f1f3a9b2c11"

type roomRepo struct {
	participants map[string][]string
}

func (r roomRepo) FindDirectConversations(context.Context, string) ([]chat.Conversation, error) {
	return nil, nil
}

func (r roomRepo) CreateDirectConversation(_ context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	return c, true, nil
}

func (r roomRepo) CreateConversation(_ context.Context, c chat.Conversation) (chat.Conversation, error) {
	return c, nil
}

func (r roomRepo) IsParticipant(_ context.Context, id, username string) (bool, error) {
	for _, p := range r.participants[id] {
		if p == username {
			return true, nil
		}
	}
	return false, nil
}

func (r roomRepo) ListParticipantIDs(_ context.Context, id string) ([]string, error) {
	return r.participants[id], nil
}

func startSocketServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := roomRepo{participants: map[string][]string{roomID: {"alice", "bob", "carol"}}}
	router := realtime.NewRouter()
	t.Cleanup(router.Close)

	ctl := NewChatSocketController(router,
		usecase.NewJoinConversationUseCase(repo),
		usecase.NewListParticipantsUseCase(repo),
		[]string{"*"}, zerolog.Nop())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		middleware.SetCurrentUser(c, directory.User{Username: c.Query("as")})
	}, ctl.Handle())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dialAs(t *testing.T, url, username string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url+"?as="+username, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	assert.Equal(t, "connected", readFrame(t, ws)["type"])
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]any
	require.NoError(t, ws.ReadJSON(&frame))
	return frame
}

func send(t *testing.T, ws *websocket.Conn, frameType, conversationID string) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(inboundFrame{Type: frameType, ConversationID: conversationID}))
}

func TestChatSocket_PresenceReachesOtherViewers(t *testing.T) {
	url := startSocketServer(t)
	alice := dialAs(t, url, "alice")
	bob := dialAs(t, url, "bob")

	send(t, alice, "join", roomID)
	ack := readFrame(t, alice)
	assert.Equal(t, "joined", ack["type"])
	assert.EqualValues(t, 1, ack["viewers"])

	send(t, bob, "join", roomID)
	ack = readFrame(t, bob)
	assert.Equal(t, "joined", ack["type"])
	assert.EqualValues(t, 2, ack["viewers"])

	presence := readFrame(t, alice)
	assert.Equal(t, "presence", presence["type"])
	assert.Equal(t, "bob", presence["username"])
	assert.Equal(t, "joined", presence["state"])
	assert.EqualValues(t, 2, presence["viewers"])

	send(t, bob, "participants", roomID)
	list := readFrame(t, bob)
	assert.Equal(t, "participants", list["type"])
	assert.Equal(t, []any{"alice", "bob", "carol"}, list["participants"])
	assert.Equal(t, []any{"alice", "bob"}, list["online"])

	send(t, bob, "leave", roomID)
	assert.Equal(t, "left", readFrame(t, bob)["type"])

	presence = readFrame(t, alice)
	assert.Equal(t, "bob", presence["username"])
	assert.Equal(t, "left", presence["state"])
	assert.EqualValues(t, 1, presence["viewers"])
}

func TestChatSocket_DisconnectLeavesRooms(t *testing.T) {
	url := startSocketServer(t)
	alice := dialAs(t, url, "alice")
	carol := dialAs(t, url, "carol")

	send(t, alice, "join", roomID)
	readFrame(t, alice)
	send(t, carol, "join", roomID)
	readFrame(t, carol)
	readFrame(t, alice) // carol joined

	require.NoError(t, carol.Close())

	presence := readFrame(t, alice)
	assert.Equal(t, "carol", presence["username"])
	assert.Equal(t, "left", presence["state"])
}

func TestChatSocket_RejectsOutsiders(t *testing.T) {
	url := startSocketServer(t)
	dave := dialAs(t, url, "dave")

	send(t, dave, "join", roomID)
	frame := readFrame(t, dave)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "forbidden", frame["code"])

	send(t, dave, "shout", roomID)
	assert.Equal(t, "unsupported_type", readFrame(t, dave)["code"])

	require.NoError(t, dave.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, "bad_request", readFrame(t, dave)["code"])
}
