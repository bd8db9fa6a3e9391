package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			ctx.Request.Header.Set(RequestIDHeader, id)
		}
		ctx.Set(requestIDKey, id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or "" outside of it.
func RequestIDFrom(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
