package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// CORS adds permissive CORS headers so browser frontends can call the API
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, "+IdentityHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		// Short-circuit preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next() // Proceed to the next handler
	}
}
