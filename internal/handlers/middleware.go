package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey        = "userId"
	accessTokenQuery = "access_token"
)

// userIdMiddleware authenticates the request with a Bearer token. Browsers
// cannot set headers on a WebSocket handshake, so the token may also come
// from the access_token query parameter.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	var token string
	header := c.GetHeader("Authorization")
	switch {
	case header != "":
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}
		token = strings.TrimSpace(parts[1])
	case c.Query(accessTokenQuery) != "":
		token = c.Query(accessTokenQuery)
	default:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(userIDKey, userId)
	c.Next()
}

// userID returns the authenticated user set by userIdMiddleware.
func userID(c *gin.Context) int {
	return c.GetInt(userIDKey)
}
