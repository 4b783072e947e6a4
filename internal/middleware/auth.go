package middleware

import (
	"context"
	"errors"
	"net/http"

	"redditclone/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionTokenKey is where the opaque session token lives in the cookie session.
	SessionTokenKey = "session_token"
	// CurrentUserKey holds the resolved user id in the gin context.
	CurrentUserKey = "user_id"
)

// SessionResolver maps a session token to a user id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uint, error)
}

// LoadUser resolves the session token from the cookie and sets the user id on
// the context. A stale token is dropped from the cookie.
func LoadUser(resolver SessionResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(SessionTokenKey).(string)
		if token != "" {
			userID, err := resolver.Resolve(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(CurrentUserKey, userID)
			case errors.Is(err, models.ErrNoSuchSession):
				session.Delete(SessionTokenKey)
				_ = session.Save()
			default:
				logger.Warn("resolve session failed", zap.Error(err))
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a logged-in user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
