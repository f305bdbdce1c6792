package http

import (
	"time"

	qport "go-convo/internal/infrastructure/queue/port"
	"go-convo/internal/infrastructure/realtime"
	"go-convo/internal/pkg/chat/application/usecase"
	notification "go-convo/internal/pkg/chat/notification/port"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
	"go-convo/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Dependencies are the adapters the chat endpoints run on.
type Dependencies struct {
	Conversations  repository.ChatRepository
	Drafts         repository.DraftRepository
	Users          usecase.UserDirectory
	Notifier       notification.Notifier
	Queue          qport.Client
	Router         *realtime.Router
	Log            zerolog.Logger
	Timeout        time.Duration
	AllowedOrigins []string
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Dependencies) {
	if d.Timeout <= 0 {
		d.Timeout = 3 * time.Second
	}

	getDraft := usecase.NewGetGroupDraftUseCase(d.Drafts)
	discardDraft := usecase.NewDiscardGroupDraftUseCase(d.Drafts)

	directCtl := controller.NewCreateDirectChatController(
		usecase.NewCreateDirectChatUseCase(d.Conversations, d.Users, d.Notifier, d.Queue, d.Log), d.Timeout)
	groupCtl := controller.NewCreateGroupController(
		usecase.NewCreateGroupUseCase(d.Conversations, d.Notifier, d.Queue, d.Log), getDraft, discardDraft, d.Log, d.Timeout)
	getDraftCtl := controller.NewGetGroupDraftController(getDraft, d.Timeout)
	addMemberCtl := controller.NewAddGroupMemberController(usecase.NewAddGroupMemberUseCase(d.Drafts, d.Users), d.Timeout)
	removeMemberCtl := controller.NewRemoveGroupMemberController(usecase.NewRemoveGroupMemberUseCase(d.Drafts), d.Timeout)
	discardDraftCtl := controller.NewDiscardGroupDraftController(discardDraft, d.Timeout)

	listMembers := usecase.NewListParticipantsUseCase(d.Conversations)
	participantsCtl := controller.NewListParticipantsController(listMembers, d.Timeout)
	socketCtl := controller.NewChatSocketController(d.Router,
		usecase.NewJoinConversationUseCase(d.Conversations), listMembers, d.AllowedOrigins, d.Log)

	// POST /api/v1/chat/direct -> open (or reuse) a direct conversation
	g.POST("/chat/direct", directCtl.Handle())

	// group dialog: draft member selection, then create
	g.GET("/chat/group/draft", getDraftCtl.Handle())
	g.POST("/chat/group/draft/members", addMemberCtl.Handle())
	g.DELETE("/chat/group/draft/members/:username", removeMemberCtl.Handle())
	g.DELETE("/chat/group/draft", discardDraftCtl.Handle())
	g.POST("/chat/group", groupCtl.Handle())

	// GET /api/v1/chat/ws -> websocket endpoint for pushed frames
	g.GET("/chat/ws", socketCtl.Handle())

	// GET /api/v1/chat/:conversationId/participants
	g.GET("/chat/:conversationId/participants", participantsCtl.Handle())
}
