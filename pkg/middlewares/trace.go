package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/go-base-project/pkg"
)

// TraceID returns Gin middleware that assigns every request a trace id.
// An incoming X-Trace-Id wins, then X-Request-Id from proxies; otherwise a new UUID is generated.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(pkg.HeaderRequestId)
		traceID := c.Request.Header.Get(pkg.HeaderTraceId)
		if pkg.IsEmpty(traceID) {
			traceID = requestID
		}
		if pkg.IsEmpty(traceID) {
			traceID = pkg.GenerateUUID()
		}

		// Set in context for handlers and error mapping logs
		c.Set(pkg.TraceId, traceID)
		if !pkg.IsEmpty(requestID) {
			c.Set(pkg.RequestId, requestID)
			c.Writer.Header().Set(pkg.HeaderRequestId, requestID)
		}
		// Propagate in the response header for clients/downstream tracing
		c.Writer.Header().Set(pkg.HeaderTraceId, traceID)
		c.Next()
	}
}
