package controller

import (
	"context"
	"net/http"
	"time"

	"go-convo/internal/infrastructure/metrics"
	"go-convo/internal/infrastructure/middleware"
	directory "go-convo/internal/pkg/directory/application/domain"
	"go-convo/internal/pkg/directory/application/usecase"
	repository "go-convo/internal/pkg/directory/persistence/repository/port"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ListDirectoryController serves the user pickers of both the direct chat and
// the group dialogs. The two pickers filter independently; scope only tells
// them apart in logs and metrics.
type ListDirectoryController struct {
	UC      *usecase.ListDirectoryUseCase
	log     zerolog.Logger
	timeout time.Duration
}

func NewListDirectoryController(repo repository.UserRepository, log zerolog.Logger, timeout time.Duration) *ListDirectoryController {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ListDirectoryController{
		UC:      usecase.NewListDirectoryUseCase(repo),
		log:     log,
		timeout: timeout,
	}
}

type userResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

func (h *ListDirectoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		scope := c.DefaultQuery("scope", "chat")
		if scope != "chat" && scope != "group" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be chat or group"})
			return
		}
		query := c.Query("q")
		metrics.DirectorySearches.WithLabelValues(scope).Inc()

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		users, err := h.UC.Execute(ctx, usecase.ListDirectoryInput{
			CurrentUsername: user.Username,
			Query:           query,
		})
		if err != nil {
			// The picker degrades to an empty list; the failure is only logged.
			h.log.Error().Err(err).
				Str("op", "list_directory").
				Str("scope", scope).
				Str("user", user.Username).
				Msg("error loading users")
			users = nil
		}

		c.JSON(http.StatusOK, gin.H{
			"scope": scope,
			"users": toUserResponses(users),
			"count": len(users),
		})
	}
}

func toUserResponses(users []directory.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{Username: u.Username, DisplayName: u.DisplayName, Avatar: u.Avatar})
	}
	return out
}
