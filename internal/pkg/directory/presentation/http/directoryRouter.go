package http

import (
	"time"

	repository "go-convo/internal/pkg/directory/persistence/repository/port"
	"go-convo/internal/pkg/directory/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RegisterRoutes registers directory endpoints under the given router group.
// The group is expected to carry the session middleware.
func RegisterRoutes(g *gin.RouterGroup, users repository.UserRepository, log zerolog.Logger, timeout time.Duration) {
	listCtl := controller.NewListDirectoryController(users, log, timeout)

	// GET /api/v1/users?q=&scope=chat|group
	g.GET("/users", listCtl.Handle())
}
