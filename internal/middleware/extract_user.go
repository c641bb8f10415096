package middleware

import (
	"peopleflow-hr/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExtractUserID runs after AuthMiddleware. It tags the request context and
// its logger with the authenticated user and company.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			abortWithError(c, ErrTokenNotFound)
			return
		}

		c.Set("user_id_validated", userID)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		logger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", userID))
		if companyID := c.GetString("company_id"); companyID != "" {
			ctx = contextutil.WithCompanyID(ctx, companyID)
			logger = logger.With(zap.String("company_id", companyID))
		}
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, logger))

		c.Next()
	}
}
