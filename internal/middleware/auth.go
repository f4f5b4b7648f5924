// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gamisaur/gccan/internal/service"
	"github.com/gamisaur/gccan/pkg/database"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gamisaur/gccan/pkg/token"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware authenticates admin requests: it verifies the bearer token,
// rejects blacklisted (logged-out) tokens, and reloads the admins record on
// every request so a revoked admin loses access immediately. On failure the
// caller's session, if identified, is force-demoted from the console back to
// the login view before the request is rejected.
func AuthMiddleware(jwtManager *token.JWTManager, adminService service.AdminService, sessionService service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			demoteSession(c, sessionService)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			demoteSession(c, sessionService)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		if blacklisted, err := database.RDB.Exists(c.Request.Context(), "blacklist:"+tokenString).Result(); err == nil && blacklisted > 0 {
			demoteSession(c, sessionService)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			demoteSession(c, sessionService)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// The admins record is the authorization model; a principal whose
		// record is gone is no longer an admin, valid token or not.
		admin, err := adminService.GetProfile(claims.Email)
		if err != nil {
			demoteSession(c, sessionService)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin record not found"})
			return
		}

		c.Set("admin", admin)
		c.Set("claims", claims)

		c.Next()
	}
}

func demoteSession(c *gin.Context, sessionService service.SessionService) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" || sessionService == nil {
		return
	}
	if _, err := sessionService.Demote(context.Background(), sessionID); err != nil {
		log.Warnf("failed to demote session %s: %v", sessionID, err)
	}
}
