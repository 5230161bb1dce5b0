package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	appctx "inventory/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Keys stored on the gin context.
const (
	KeyRequestID = "request_id"
	KeyTraceID   = "trace_id"
	KeyUserID    = "user_id"
)

// Trace middleware adds request tracing context.
// An incoming X-Request-ID is kept; an active OpenTelemetry span lends its trace id.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := appctx.NewTraceContext(c.GetHeader(HeaderRequestID))

		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			tc.TraceID = sc.TraceID().String()
		} else if incoming := c.GetHeader(HeaderTraceID); incoming != "" {
			tc.TraceID = incoming
		}

		ctx := appctx.WithTrace(c.Request.Context(), tc)
		c.Request = c.Request.WithContext(ctx)

		c.Set(KeyTraceID, tc.TraceID)
		c.Set(KeyRequestID, tc.RequestID)

		c.Header(HeaderRequestID, tc.RequestID)
		c.Header(HeaderTraceID, tc.TraceID)

		c.Next()
	}
}
