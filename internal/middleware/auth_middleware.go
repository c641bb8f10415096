package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"peopleflow-hr/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware accepts an HS256 bearer token (or the access_token cookie)
// signed with JWT_SECRET and copies its user, employee, company and role
// claims into the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWithError(c, ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, ErrTokenExpired)
				return
			}
			abortWithError(c, ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWithError(c, ErrInvalidToken)
			return
		}

		values := make(map[string]string, 3)
		for _, key := range []string{"user_id", "company_id", "employee_id"} {
			v, _ := claims[key].(string)
			if v == "" {
				abortWithError(c, fmt.Errorf("%w: %s missing", ErrInvalidToken, key))
				return
			}
			values[key] = v
		}
		role, _ := claims["role"].(string)

		c.Set("user_id", values["user_id"])
		c.Set("employee_id", values["employee_id"])
		c.Set("company_id", values["company_id"])
		c.Set("role", role)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, apperror.ErrForbidden)
	}
}
