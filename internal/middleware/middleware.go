package middleware

import (
	"net/http"
	"time"

	"partyplan/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS answers preflight requests from any origin, as the function is
// invoked directly from the hosted platform and browsers.
func CORS() gin.HandlerFunc {
	cc := cors.DefaultConfig()
	cc.AllowAllOrigins = true
	cc.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	cc.AllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}
	cc.OptionsResponseStatusCode = http.StatusOK
	return cors.New(cc)
}

// Logger логирует каждый запрос
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := logger.Get().Info()
		if status >= 400 {
			event = logger.Get().Error()
			if len(c.Errors) > 0 {
				event = event.Str("error", c.Errors.String())
			}
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("Request completed")
	}
}

// Recovery восстанавливается после паники и отвечает 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Get().Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Msg("PANIC recovered")

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Internal server error",
			})
		}
	})
}
