package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORS sets permissive headers — the kiosk front end and the admin SPA are
// served from other origins on the shop LAN.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID, X-Kiosk-Session")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Kiosk-Session")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
