package controller

import (
	"context"
	"net/http"
	"time"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// CreateDirectChatController handles POST /chat/direct.
type CreateDirectChatController struct {
	UC      *usecase.CreateDirectChatUseCase
	timeout time.Duration
}

func NewCreateDirectChatController(uc *usecase.CreateDirectChatUseCase, timeout time.Duration) *CreateDirectChatController {
	return &CreateDirectChatController{UC: uc, timeout: timeout}
}

type createDirectChatRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *CreateDirectChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}

		var req createDirectChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.CreateDirectChatInput{Current: user, TargetUsername: req.Username})
		if err != nil {
			respondError(c, err)
			return
		}

		status := http.StatusOK
		if out.Created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{
			"conversation": out.Conversation,
			"created":      out.Created,
		})
	}
}
