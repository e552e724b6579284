package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var corsAllowHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type", "X-Request-Id", "X-Trace-Id"}

// CORS allows every origin. Browsers send the bearer token explicitly, so
// credentials (cookies) are never allowed.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:              corsAllowHeaders,
		ExposeHeaders:             []string{"X-Request-Id", "X-Trace-Id"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	})
}

// Preflight answers any OPTIONS request with 200 before routing or auth, including
// requests without an Origin header that the CORS handler passes through.
func Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.String(http.StatusOK, "ok")
		c.Abort()
	}
}
