package middleware

import (
	"peopleflow-hr/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger puts a request-scoped logger and the request id into the
// request context so services can log without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}
		if rid == "" {
			rid = uuid.New().String()
			c.Header(requestIDHeader, rid)
		}

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		ctx = contextutil.WithLogger(ctx, logger.With(zap.String("request_id", rid)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
