package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wudcwctw/webapp/logger"
)

// RequestLogger returns a Gin middleware that logs every request with
// method, path, status, and latency. Health and metrics paths are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return func(c *gin.Context) {
		if isSystemEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    path,
			"status":  status,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		}
		if id := c.GetString("request_id"); id != "" {
			fields["request_id"] = id
		}

		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}

func isSystemEndpoint(path string) bool {
	switch path {
	case "/health", "/info", "/metrics":
		return true
	}
	return false
}
