package middleware

import (
	"net/http"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware asserts that AuthMiddleware resolved an admins record
// for this request. It must run after AuthMiddleware.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, exists := c.Get("admin")
		if !exists {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve admin identity"})
			return
		}

		if _, ok := admin.(*model.Admin); !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unexpected admin identity type"})
			return
		}

		c.Next()
	}
}
