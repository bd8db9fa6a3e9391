package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestRecorder counts finished requests.
type RequestRecorder interface {
	ObserveHTTPRequest(method, route string, status int)
}

// AccessLog logs every request once it has been served. recorder may be nil.
func AccessLog(logger *log.Entry, recorder RequestRecorder) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if recorder != nil {
			recorder.ObserveHTTPRequest(ctx.Request.Method, route, status)
		}

		entry := logger.WithFields(log.Fields{
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     status,
			"bytes":      ctx.Writer.Size(),
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id": RequestIDFrom(ctx),
		})
		if status >= 500 {
			entry.Warn("http request")
			return
		}
		entry.Info("http request")
	}
}
