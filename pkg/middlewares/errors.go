package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/go-base-project/pkg"
	"go.uber.org/zap"
)

// ErrorHandler returns Gin middleware that turns handler failures into error envelopes.
// Handlers report failures with c.Error(err); recovered panics go through the same mapping.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				writeError(c, logger, &pkg.PanicError{Value: r, Stack: debug.Stack()})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		writeError(c, logger, c.Errors.Last().Err)
	}
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	traceID := c.GetString(pkg.TraceId)
	resp := pkg.ToErrorResponse(logger, traceID, err)
	c.Set(pkg.ErrorRule, resp.Rule)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(resp.Status, resp.Body)
}
