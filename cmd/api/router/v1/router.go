package v1

import (
	"time"

	"go-convo/internal/infrastructure/middleware"
	"go-convo/internal/infrastructure/session"
	chatHTTP "go-convo/internal/pkg/chat/presentation/http"
	dirRepo "go-convo/internal/pkg/directory/persistence/repository/port"
	dirHTTP "go-convo/internal/pkg/directory/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps bundles what the v1 API needs.
type Deps struct {
	Sessions *session.Manager
	Users    dirRepo.UserRepository
	Lookup   middleware.UserLookup
	Chat     chatHTTP.Dependencies
	Log      zerolog.Logger
	Timeout  time.Duration
}

// RegisterRoutes mounts all version 1 API routes under /api/v1. Every route
// requires a session.
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1", middleware.Session(d.Sessions, d.Lookup))
	dirHTTP.RegisterRoutes(v1, d.Users, d.Log, d.Timeout)
	chatHTTP.RegisterRoutes(v1, d.Chat)
}
