package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/pkg/token"
)

// Context keys set by AuthMiddleware
const (
	UserIDKey    = "user_id"
	SessionIDKey = "session_id"
	RoleKey      = "role"
)

// AuthMiddleware validates the bearer token and checks that the session it
// names is still alive in the database. A minted token outliving its session
// row, expired or deleted, is rejected here.
func AuthMiddleware(tokens *token.Service, sessions *database.SessionRepository, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			unauthorized(c, "Invalid authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.WithError(err).WithField("path", c.Request.URL.Path).Warn("Rejected session token")
			unauthorized(c, "Invalid or expired token")
			return
		}

		session, err := sessions.GetActiveSession(claims.SessionID)
		if err != nil {
			logger.WithField("session_id", claims.SessionID).Warn("Token names no active session")
			unauthorized(c, "Session is no longer active")
			return
		}

		c.Set(UserIDKey, session.UserID)
		c.Set(SessionIDKey, session.ID)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}

// RequireRole checks that the authenticated user holds one of the roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(RoleKey)
		if !exists {
			unauthorized(c, "Not authenticated")
			return
		}

		role := value.(string)
		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": "You don't have permission to access this resource",
		})
		c.Abort()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": message,
	})
	c.Abort()
}
