package controller

import (
	"context"
	"net/http"
	"time"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// ListParticipantsController handles GET /chat/:conversationId/participants.
type ListParticipantsController struct {
	UC      *usecase.ListParticipantsUseCase
	timeout time.Duration
}

func NewListParticipantsController(uc *usecase.ListParticipantsUseCase, timeout time.Duration) *ListParticipantsController {
	return &ListParticipantsController{UC: uc, timeout: timeout}
}

func (h *ListParticipantsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}
		conversationID := c.Param("conversationId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		names, err := h.UC.Execute(ctx, usecase.ListParticipantsInput{ConversationID: conversationID, Requester: user.Username})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversation_id": conversationID, "participants": names})
	}
}
