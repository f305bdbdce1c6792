package controller

import (
	"errors"
	"net/http"

	"go-convo/internal/infrastructure/middleware"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/gin-gonic/gin"
)

// statusFor maps use case errors onto HTTP statuses shared by the chat endpoints.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, directory.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrNotParticipant):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// sessionUser aborts with 401 when the session middleware did not run.
func sessionUser(c *gin.Context) (directory.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
	}
	return user, ok
}

type memberResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// draftBody renders the selected-member chips of a group draft.
func draftBody(d chat.GroupDraft) gin.H {
	members := make([]memberResponse, 0, d.Len())
	for _, m := range d.Members() {
		members = append(members, memberResponse{Username: m.Username, DisplayName: m.DisplayName, Avatar: m.Avatar})
	}
	return gin.H{"members": members, "count": len(members)}
}
