package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/api-integration/internal/adapters/http/dto"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
)

// Recovery returns middleware that recovers from panics.
// On panic, it:
//   - Logs the panic value with full stack trace at ERROR level
//   - Returns a 500 problem payload whose type is the Go type of the panic value
//   - Includes trace_id in the response for debugging
//
// This middleware should be applied first in the chain to catch panics
// from all subsequent handlers and middleware.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()
			problem := dto.NewServerErrorProblem(r, c.Request)

			logging.FromContext(c.Request.Context()).Error("panic recovered",
				slog.Any("error", r),
				slog.String("panic_type", problem.Type),
				slog.String("stack", string(stack)),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
			)

			// Headers already sent; nothing useful can be written.
			if c.Writer.Written() {
				c.Abort()
				return
			}

			dto.AbortWithProblem(c, problem)
		}()

		c.Next()
	}
}
