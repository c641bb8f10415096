package middleware

import (
	"net/http"

	"peopleflow-hr/internal/shared/apperror"
	"peopleflow-hr/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotFound = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken  = apperror.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired  = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
	ErrRateLimited   = apperror.New(apperror.CodeRateLimited, "Too many requests", http.StatusTooManyRequests)
	ErrInProgress    = apperror.New("PROCESSING", "A request with this idempotency key is still being processed", http.StatusConflict)
)

func abortWithError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
