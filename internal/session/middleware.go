package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// Middleware authenticates the bearer token and loads its session. Requests
// whose session was logged out or fails validation are rejected.
func Middleware(secret string, store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			return
		}

		sess, err := store.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			switch {
			case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrInvalidSession):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again"})
			default:
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			}
			return
		}

		if sess.Principal.Role != claims.Role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session does not match token"})
			return
		}

		Set(c, sess)
		c.Next()
	}
}

func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		for _, r := range roles {
			if sess.Principal.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// Set attaches sess to the request context.
func Set(c *gin.Context, sess *Session) {
	c.Set(contextKey, sess)
}

func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	return sess, ok
}

// ManagerFrom returns the manager identity of the request, if any.
func ManagerFrom(c *gin.Context) (*Manager, bool) {
	sess, ok := FromContext(c)
	if !ok || sess.Principal.Role != auth.RoleManager {
		return nil, false
	}
	return sess.Principal.Manager, true
}

func MemberFrom(c *gin.Context) (*Member, bool) {
	sess, ok := FromContext(c)
	if !ok || sess.Principal.Role != auth.RoleMember {
		return nil, false
	}
	return sess.Principal.Member, true
}
