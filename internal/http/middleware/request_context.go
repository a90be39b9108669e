package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/platform/ctxutil"
)

// AttachRequestContext stamps every request with a fresh trace id before
// any other middleware or handler runs, so every log line for this
// request can be correlated (teacher's middleware.AttachRequestContext
// pattern, adapted from SSE session data to a request id).
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = ctxutil.WithTraceData(ctx, &ctxutil.TraceData{
			TraceID:   uuid.NewString(),
			RequestID: uuid.NewString(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
