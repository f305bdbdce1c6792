package controller

import (
	"context"
	"net/http"
	"time"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// GetGroupDraftController handles GET /chat/group/draft.
type GetGroupDraftController struct {
	UC      *usecase.GetGroupDraftUseCase
	timeout time.Duration
}

func NewGetGroupDraftController(uc *usecase.GetGroupDraftUseCase, timeout time.Duration) *GetGroupDraftController {
	return &GetGroupDraftController{UC: uc, timeout: timeout}
}

func (h *GetGroupDraftController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		d, err := h.UC.Execute(ctx, user.Username)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, draftBody(d))
	}
}

// AddGroupMemberController handles POST /chat/group/draft/members.
type AddGroupMemberController struct {
	UC      *usecase.AddGroupMemberUseCase
	timeout time.Duration
}

func NewAddGroupMemberController(uc *usecase.AddGroupMemberUseCase, timeout time.Duration) *AddGroupMemberController {
	return &AddGroupMemberController{UC: uc, timeout: timeout}
}

type addGroupMemberRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *AddGroupMemberController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}
		var req addGroupMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		d, err := h.UC.Execute(ctx, usecase.GroupMemberInput{Owner: user.Username, Username: req.Username})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, draftBody(d))
	}
}

// RemoveGroupMemberController handles DELETE /chat/group/draft/members/:username.
type RemoveGroupMemberController struct {
	UC      *usecase.RemoveGroupMemberUseCase
	timeout time.Duration
}

func NewRemoveGroupMemberController(uc *usecase.RemoveGroupMemberUseCase, timeout time.Duration) *RemoveGroupMemberController {
	return &RemoveGroupMemberController{UC: uc, timeout: timeout}
}

func (h *RemoveGroupMemberController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		d, err := h.UC.Execute(ctx, usecase.GroupMemberInput{Owner: user.Username, Username: c.Param("username")})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, draftBody(d))
	}
}

// DiscardGroupDraftController handles DELETE /chat/group/draft.
type DiscardGroupDraftController struct {
	UC      *usecase.DiscardGroupDraftUseCase
	timeout time.Duration
}

func NewDiscardGroupDraftController(uc *usecase.DiscardGroupDraftUseCase, timeout time.Duration) *DiscardGroupDraftController {
	return &DiscardGroupDraftController{UC: uc, timeout: timeout}
}

func (h *DiscardGroupDraftController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		if err := h.UC.Execute(ctx, user.Username); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"members": []memberResponse{}, "count": 0})
	}
}
