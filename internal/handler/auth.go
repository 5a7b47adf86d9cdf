package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/gorm-posts/internal/auth"
)

const userIDKey = "userId"

// Auth resolves the caller from the bearer token, or aborts with 401.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := auth.Parse(secret, bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: err.Error()})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserID returns the caller resolved by Auth.
func UserID(c *gin.Context) (string, bool) {
	uid := c.GetString(userIDKey)
	return uid, uid != ""
}

func bearerToken(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
