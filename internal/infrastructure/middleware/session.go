package middleware

import (
	"context"
	"errors"
	"net/http"

	"go-convo/internal/infrastructure/session"
	directory "go-convo/internal/pkg/directory/application/domain"

	"github.com/gin-gonic/gin"
)

const sessionUserKey = "session_user"

// UserLookup resolves the user named in a session token.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (directory.User, error)
}

// Session authenticates the request from the Authorization header or, for
// websocket upgrades, the token query parameter, and stores the resolved user
// in the gin context.
func Session(tokens *session.Manager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		username, err := tokens.Validate(token)
		if err != nil {
			msg := "invalid session token"
			if errors.Is(err, session.ErrTokenExpired) {
				msg = "session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), username)
		if err != nil {
			if errors.Is(err, directory.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown session user"})
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session lookup failed"})
			return
		}

		c.Set(sessionUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Session.
func CurrentUser(c *gin.Context) (directory.User, bool) {
	v, ok := c.Get(sessionUserKey)
	if !ok {
		return directory.User{}, false
	}
	user, ok := v.(directory.User)
	return user, ok
}

// SetCurrentUser stores user as the session user. Handlers mounted behind
// Session never need it; tests and alternate auth paths do.
func SetCurrentUser(c *gin.Context, user directory.User) {
	c.Set(sessionUserKey, user)
}
