package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CreateGroupController handles POST /chat/group. Members come from the
// session user's stored draft, which is cleared once the group exists.
type CreateGroupController struct {
	UC      *usecase.CreateGroupUseCase
	draft   *usecase.GetGroupDraftUseCase
	discard *usecase.DiscardGroupDraftUseCase
	log     zerolog.Logger
	timeout time.Duration
}

func NewCreateGroupController(uc *usecase.CreateGroupUseCase, draft *usecase.GetGroupDraftUseCase, discard *usecase.DiscardGroupDraftUseCase, log zerolog.Logger, timeout time.Duration) *CreateGroupController {
	return &CreateGroupController{UC: uc, draft: draft, discard: discard, log: log, timeout: timeout}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CreateGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c)
		if !ok {
			return
		}

		var req createGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		in := usecase.CreateGroupInput{
			Creator:     user,
			Name:        req.Name,
			Description: req.Description,
		}
		// A blank name is rejected whatever the selection, so the draft
		// store is only consulted for a named group.
		if strings.TrimSpace(req.Name) != "" {
			d, err := h.draft.Execute(ctx, user.Username)
			if err != nil {
				h.log.Error().Err(err).Str("op", "load_group_draft").Str("user", user.Username).Msg("error creating group")
				respondError(c, err)
				return
			}
			in.Draft = d
		}

		conv, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}

		// The group exists; a stale draft only costs its TTL.
		if err := h.discard.Execute(ctx, user.Username); err != nil {
			h.log.Warn().Err(err).Str("user", user.Username).Msg("clear group draft")
		}

		c.JSON(http.StatusCreated, gin.H{"conversation": conv})
	}
}
