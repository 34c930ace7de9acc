package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/lgr"
)

// LoggerMiddleware logs one line per request through lgr.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := "INFO"
		switch {
		case status >= 500:
			level = "ERROR"
		case status >= 400:
			level = "WARN"
		}
		lgr.Printf("[%s] %s %s %d %s rid=%s", level, c.Request.Method, c.Request.URL.Path, status,
			time.Since(start), RequestID(c))
	}
}
